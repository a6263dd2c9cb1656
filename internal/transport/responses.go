package transport

import (
	"time"

	"catalog-api/internal/domain"
)

// Wire shapes. Field names match the public API contract consumed by the
// admin frontend and storefront, hence camelCase.

// CategoryRef is a resolved reference to a category or subcategory
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// CategoryResponse is the wire shape of a category
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SubCategoryResponse is the wire shape of a subcategory with its parent
// category reference resolved to at least the name.
type SubCategoryResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    CategoryRef `json:"category"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// VariationResponse is the wire shape of an embedded product variation
type VariationResponse struct {
	ID       string  `json:"id"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	Price    float64 `json:"price"`
	Discount int     `json:"discount"`
	Stock    int     `json:"stock"`
}

// ProductResponse is the wire shape of a product
type ProductResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	ProductCode string              `json:"productCode"`
	Description string              `json:"description"`
	Images      []string            `json:"images"`
	Category    CategoryRef         `json:"category"`
	SubCategory *CategoryRef        `json:"subCategory,omitempty"`
	Variations  []VariationResponse `json:"variations"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ProductListResponse is the paginated listing envelope
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Count int               `json:"count"`
}

func newCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newCategoryListResponse(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, newCategoryResponse(c))
	}
	return out
}

func newSubCategoryResponse(s *domain.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Category: CategoryRef{
			ID:   s.CategoryID.String(),
			Name: s.CategoryName,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func newSubCategoryListResponse(subCategories []*domain.SubCategory) []SubCategoryResponse {
	out := make([]SubCategoryResponse, 0, len(subCategories))
	for _, s := range subCategories {
		out = append(out, newSubCategoryResponse(s))
	}
	return out
}

func newProductResponse(p *domain.Product) ProductResponse {
	variations := make([]VariationResponse, 0, len(p.Variations))
	for _, v := range p.Variations {
		variations = append(variations, VariationResponse{
			ID:       v.ID.String(),
			Size:     v.Size,
			Color:    v.Color,
			Price:    v.Price,
			Discount: v.Discount,
			Stock:    v.Stock,
		})
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}

	resp := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		ProductCode: p.ProductCode,
		Description: p.Description,
		Images:      images,
		Category: CategoryRef{
			ID:   p.CategoryID.String(),
			Name: p.CategoryName,
		},
		Variations: variations,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}

	if p.SubCategoryID != nil {
		resp.SubCategory = &CategoryRef{
			ID:   p.SubCategoryID.String(),
			Name: p.SubCategoryName,
		}
	}

	return resp
}
