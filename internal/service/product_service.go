package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

// DefaultPageSize is the product listing page size
const DefaultPageSize = 10

// VariationInput is an unparsed variation as supplied by the client. Discount
// and stock default to zero when absent.
type VariationInput struct {
	Size     string   `json:"size"`
	Color    string   `json:"color"`
	Price    *float64 `json:"price"`
	Discount *int     `json:"discount"`
	Stock    *int     `json:"stock"`
}

// CreateProductInput carries the fields for a new product. ImagePaths are
// storage paths already produced by the upload collaborator.
type CreateProductInput struct {
	Name          string
	ProductCode   string
	Description   string
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Variations    []VariationInput
	ImagePaths    []string
}

// UpdateProductInput carries a fill-if-provided merge. Empty strings and nil
// pointers leave the stored value untouched. AppendImages are added to the
// existing image list, never replacing it. A non-nil Variations replaces the
// entire embedded list.
type UpdateProductInput struct {
	Name          string
	ProductCode   string
	Description   string
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	Variations    *[]VariationInput
	AppendImages  []string
}

// UpdateVariationInput merges into an embedded variation. Size and color
// replace only when non-empty; price, discount and stock replace whenever
// supplied, explicit zero included.
type UpdateVariationInput struct {
	Size     string
	Color    string
	Price    *float64
	Discount *int
	Stock    *int
}

// ListProductsInput narrows and pages a product listing
type ListProductsInput struct {
	Page          int
	PageSize      int
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	Keyword       string
}

// ProductPage is the listing envelope: the matching page plus totals
type ProductPage struct {
	Items []*domain.Product
	Page  int
	Pages int
	Count int
}

// ProductService defines the interface for product business logic, including
// the variation sub-resource operations.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVariation(ctx context.Context, productID uuid.UUID, input VariationInput) (*domain.Product, error)
	UpdateVariation(ctx context.Context, productID, variationID uuid.UUID, input UpdateVariationInput) (*domain.Product, error)
	DeleteVariation(ctx context.Context, productID, variationID uuid.UUID) (*domain.Product, error)
}

type productService struct {
	productRepo     repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	subCategoryRepo repository.SubCategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	subCategoryRepo repository.SubCategoryRepository,
) ProductService {
	return &productService{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
	}
}

// Create adds a new product. Preconditions are checked in order: unique code,
// existing category, subcategory belonging to that category. The first failing
// check aborts with no write.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	code := strings.TrimSpace(input.ProductCode)
	if code == "" {
		return nil, ErrCodeRequired
	}

	existing, err := s.productRepo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to check existing product code: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrProductCodeTaken
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	if input.SubCategoryID != nil {
		if err := s.checkSubCategory(ctx, *input.SubCategoryID, input.CategoryID); err != nil {
			return nil, err
		}
	}

	variations, err := parseVariations(input.Variations)
	if err != nil {
		return nil, err
	}

	images := input.ImagePaths
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	product := &domain.Product{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(input.Name),
		ProductCode:   code,
		Description:   input.Description,
		Images:        images,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Variations:    variations,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductCodeTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// List returns a page of products with all supplied filters applied
// conjunctively. Pages are 1-based; out-of-range pages come back empty.
func (s *productService) List(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	filter := repository.ProductFilter{
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Keyword:       input.Keyword,
	}

	items, count, err := s.productRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Items: items,
		Page:  page,
		Pages: (count + pageSize - 1) / pageSize,
		Count: count,
	}, nil
}

// GetByID returns a single product with reference names resolved
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Update merges the supplied fields into the stored product. Code, category
// and subcategory changes are each re-validated; the subcategory is checked
// against the effective category (the newly supplied one if present). New
// images append; a supplied variation list replaces the embedded one wholesale.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if code := strings.TrimSpace(input.ProductCode); code != "" && code != product.ProductCode {
		other, err := s.productRepo.FindByCode(ctx, code)
		if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("failed to check product code: %w", err)
		}
		if other != nil && other.ID != product.ID {
			return nil, repository.ErrProductCodeTaken
		}
		product.ProductCode = code
	}

	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
	}

	// Effective category for the subcategory consistency check: the newly
	// supplied category if present, else the stored one.
	effectiveCategory := product.CategoryID
	if input.CategoryID != nil {
		effectiveCategory = *input.CategoryID
	}

	if input.SubCategoryID != nil &&
		(product.SubCategoryID == nil || *input.SubCategoryID != *product.SubCategoryID) {
		if err := s.checkSubCategory(ctx, *input.SubCategoryID, effectiveCategory); err != nil {
			return nil, err
		}
		subID := *input.SubCategoryID
		product.SubCategoryID = &subID
		product.SubCategoryName = ""
	}

	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
		product.CategoryName = ""
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if len(input.AppendImages) > 0 {
		product.Images = append(product.Images, input.AppendImages...)
	}
	if input.Variations != nil {
		variations, err := parseVariations(*input.Variations)
		if err != nil {
			return nil, err
		}
		product.Variations = variations
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrProductCodeTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes the product and all its embedded variations in one row delete
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// AddVariation appends a new variation with a fresh sub-identifier and returns
// the updated product.
func (s *productService) AddVariation(ctx context.Context, productID uuid.UUID, input VariationInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	variation, err := parseVariation(input)
	if err != nil {
		return nil, err
	}

	product.Variations = append(product.Variations, variation)
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to add variation: %w", err)
	}

	return product, nil
}

// UpdateVariation merges the supplied fields into one embedded variation.
// Price, discount and stock honor explicit zeroes; size and color replace
// only when non-empty.
func (s *productService) UpdateVariation(ctx context.Context, productID, variationID uuid.UUID, input UpdateVariationInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	variation := product.VariationByID(variationID)
	if variation == nil {
		return nil, ErrVariationNotFound
	}

	if input.Size != "" {
		variation.Size = strings.TrimSpace(input.Size)
	}
	if input.Color != "" {
		variation.Color = strings.TrimSpace(input.Color)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidVariation)
		}
		variation.Price = *input.Price
	}
	if input.Discount != nil {
		if *input.Discount < 0 || *input.Discount > 100 {
			return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidVariation)
		}
		variation.Discount = *input.Discount
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalidVariation)
		}
		variation.Stock = *input.Stock
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update variation: %w", err)
	}

	return product, nil
}

// DeleteVariation removes one embedded variation and persists the product
func (s *productService) DeleteVariation(ctx context.Context, productID, variationID uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if product.VariationByID(variationID) == nil {
		return nil, ErrVariationNotFound
	}

	remaining := product.Variations[:0]
	for _, v := range product.Variations {
		if v.ID != variationID {
			remaining = append(remaining, v)
		}
	}
	product.Variations = remaining
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to delete variation: %w", err)
	}

	return product, nil
}

// checkSubCategory verifies the subcategory exists and belongs to categoryID
func (s *productService) checkSubCategory(ctx context.Context, subCategoryID, categoryID uuid.UUID) error {
	if _, err := s.subCategoryRepo.FindByIDAndCategory(ctx, subCategoryID, categoryID); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return ErrSubCategoryMismatch
		}
		return fmt.Errorf("failed to check sub-category: %w", err)
	}
	return nil
}

func parseVariations(inputs []VariationInput) ([]domain.Variation, error) {
	variations := []domain.Variation{}
	for i, input := range inputs {
		variation, err := parseVariation(input)
		if err != nil {
			return nil, fmt.Errorf("variation %d: %w", i, err)
		}
		variations = append(variations, variation)
	}
	return variations, nil
}

// parseVariation validates one variation shape and assigns its sub-identifier
func parseVariation(input VariationInput) (domain.Variation, error) {
	if input.Price == nil {
		return domain.Variation{}, fmt.Errorf("%w: price is required", ErrInvalidVariation)
	}
	if *input.Price < 0 {
		return domain.Variation{}, fmt.Errorf("%w: price must not be negative", ErrInvalidVariation)
	}

	variation := domain.Variation{
		ID:    uuid.New(),
		Size:  strings.TrimSpace(input.Size),
		Color: strings.TrimSpace(input.Color),
		Price: *input.Price,
	}

	if input.Discount != nil {
		if *input.Discount < 0 || *input.Discount > 100 {
			return domain.Variation{}, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidVariation)
		}
		variation.Discount = *input.Discount
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return domain.Variation{}, fmt.Errorf("%w: stock must not be negative", ErrInvalidVariation)
		}
		variation.Stock = *input.Stock
	}

	return variation, nil
}
