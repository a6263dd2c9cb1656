package service

import (
	"context"
	"strings"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

// In-memory repository doubles. They enforce the same uniqueness rules as the
// real storage layer so service behavior under duplicates can be exercised
// without a database.

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return repository.ErrCategoryNameTaken
		}
	}
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	for _, c := range m.categories {
		if c.ID != category.ID && c.Name == category.Name {
			return repository.ErrCategoryNameTaken
		}
	}
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockSubCategoryRepository struct {
	subCategories map[uuid.UUID]*domain.SubCategory
}

func newMockSubCategoryRepository() *mockSubCategoryRepository {
	return &mockSubCategoryRepository{subCategories: make(map[uuid.UUID]*domain.SubCategory)}
}

func (m *mockSubCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) error {
	for _, s := range m.subCategories {
		if s.Name == subCategory.Name && s.CategoryID == subCategory.CategoryID {
			return repository.ErrSubCategoryNameTaken
		}
	}
	clone := *subCategory
	m.subCategories[subCategory.ID] = &clone
	return nil
}

func (m *mockSubCategoryRepository) List(ctx context.Context) ([]*domain.SubCategory, error) {
	out := make([]*domain.SubCategory, 0, len(m.subCategories))
	for _, s := range m.subCategories {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockSubCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	out := []*domain.SubCategory{}
	for _, s := range m.subCategories {
		if s.CategoryID == categoryID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *mockSubCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	s, ok := m.subCategories[id]
	if !ok {
		return nil, repository.ErrSubCategoryNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *mockSubCategoryRepository) FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error) {
	for _, s := range m.subCategories {
		if s.Name == name && s.CategoryID == categoryID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, repository.ErrSubCategoryNotFound
}

func (m *mockSubCategoryRepository) FindByIDAndCategory(ctx context.Context, id, categoryID uuid.UUID) (*domain.SubCategory, error) {
	s, ok := m.subCategories[id]
	if !ok || s.CategoryID != categoryID {
		return nil, repository.ErrSubCategoryNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *mockSubCategoryRepository) Update(ctx context.Context, subCategory *domain.SubCategory) error {
	if _, ok := m.subCategories[subCategory.ID]; !ok {
		return repository.ErrSubCategoryNotFound
	}
	for _, s := range m.subCategories {
		if s.ID != subCategory.ID && s.Name == subCategory.Name && s.CategoryID == subCategory.CategoryID {
			return repository.ErrSubCategoryNameTaken
		}
	}
	clone := *subCategory
	m.subCategories[subCategory.ID] = &clone
	return nil
}

func (m *mockSubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.subCategories[id]; !ok {
		return repository.ErrSubCategoryNotFound
	}
	delete(m.subCategories, id)
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	// order preserves insertion order so pagination is deterministic
	order []uuid.UUID
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	clone.Variations = append([]domain.Variation(nil), p.Variations...)
	if p.SubCategoryID != nil {
		id := *p.SubCategoryID
		clone.SubCategoryID = &id
	}
	return &clone
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, p := range m.products {
		if p.ProductCode == product.ProductCode {
			return repository.ErrProductCodeTaken
		}
	}
	m.products[product.ID] = cloneProduct(product)
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	for _, p := range m.products {
		if p.ID != product.ID && p.ProductCode == product.ProductCode {
			return repository.ErrProductCodeTaken
		}
	}
	m.products[product.ID] = cloneProduct(product)
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

func (m *mockProductRepository) FindByCode(ctx context.Context, productCode string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ProductCode == productCode {
			return cloneProduct(p), nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	matching := []*domain.Product{}
	for _, id := range m.order {
		p := m.products[id]
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.SubCategoryID != nil &&
			(p.SubCategoryID == nil || *p.SubCategoryID != *filter.SubCategoryID) {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		matching = append(matching, cloneProduct(p))
	}

	count := len(matching)
	start := (page - 1) * pageSize
	if start >= count {
		return []*domain.Product{}, count, nil
	}
	end := start + pageSize
	if end > count {
		end = count
	}
	return matching[start:end], count, nil
}
