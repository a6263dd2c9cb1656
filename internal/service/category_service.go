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

// CreateCategoryInput carries the fields for a new category. Image is a
// storage path produced by the upload collaborator, never raw file bytes.
type CreateCategoryInput struct {
	Name        string
	Description string
	Image       string
}

// UpdateCategoryInput carries a fill-if-provided merge: empty fields leave the
// stored value untouched.
type UpdateCategoryInput struct {
	Name        string
	Description string
	Image       string
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// Create adds a new category. The name is trimmed and must be unique; the
// unique index is the authoritative check, the lookup here is a fast path.
func (s *categoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrCategoryNameTaken
	}

	now := time.Now()
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Image:       input.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// List returns all categories
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a single category
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Update merges only the supplied fields into the stored category. A rename
// that collides with another category surfaces the duplicate error from the
// storage-layer unique index.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.Description != "" {
		category.Description = strings.TrimSpace(input.Description)
	}
	if input.Image != "" {
		category.Image = input.Image
	}
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) || errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete removes a category. Subcategories and products that still reference
// it are intentionally left alone: no cascade, no referential-integrity block.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
