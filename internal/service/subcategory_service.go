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

// CreateSubCategoryInput carries the fields for a new subcategory
type CreateSubCategoryInput struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
}

// UpdateSubCategoryInput carries a fill-if-provided merge; a nil CategoryID
// leaves the parent unchanged.
type UpdateSubCategoryInput struct {
	Name        string
	Description string
	CategoryID  *uuid.UUID
}

// SubCategoryService defines the interface for subcategory business logic
type SubCategoryService interface {
	Create(ctx context.Context, input CreateSubCategoryInput) (*domain.SubCategory, error)
	List(ctx context.Context) ([]*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSubCategoryInput) (*domain.SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryService struct {
	subCategoryRepo repository.SubCategoryRepository
	categoryRepo    repository.CategoryRepository
}

// NewSubCategoryService creates a new instance of SubCategoryService
func NewSubCategoryService(
	subCategoryRepo repository.SubCategoryRepository,
	categoryRepo repository.CategoryRepository,
) SubCategoryService {
	return &subCategoryService{
		subCategoryRepo: subCategoryRepo,
		categoryRepo:    categoryRepo,
	}
}

// Create adds a new subcategory under an existing category. The (name,
// category) pair must be unique; the compound unique index is authoritative.
func (s *subCategoryService) Create(ctx context.Context, input CreateSubCategoryInput) (*domain.SubCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to check parent category: %w", err)
	}

	existing, err := s.subCategoryRepo.FindByNameAndCategory(ctx, name, input.CategoryID)
	if err != nil && !errors.Is(err, repository.ErrSubCategoryNotFound) {
		return nil, fmt.Errorf("failed to check existing sub-category: %w", err)
	}
	if existing != nil {
		return nil, repository.ErrSubCategoryNameTaken
	}

	now := time.Now()
	subCategory := &domain.SubCategory{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.subCategoryRepo.Create(ctx, subCategory); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create sub-category: %w", err)
	}

	return subCategory, nil
}

// List returns all subcategories with parent category names resolved
func (s *subCategoryService) List(ctx context.Context) ([]*domain.SubCategory, error) {
	subCategories, err := s.subCategoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-categories: %w", err)
	}
	return subCategories, nil
}

// ListByCategory returns the subcategories under a category. An unknown
// category is not an error, just an empty list.
func (s *subCategoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	subCategories, err := s.subCategoryRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-categories by category: %w", err)
	}
	return subCategories, nil
}

// GetByID returns a single subcategory
func (s *subCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, err := s.subCategoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get sub-category: %w", err)
	}
	return subCategory, nil
}

// Update merges only the supplied fields. A re-parent is validated against the
// new category; a colliding (name, category) pair surfaces the duplicate error
// from the compound unique index.
func (s *subCategoryService) Update(ctx context.Context, id uuid.UUID, input UpdateSubCategoryInput) (*domain.SubCategory, error) {
	subCategory, err := s.subCategoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load sub-category: %w", err)
	}

	if input.CategoryID != nil && *input.CategoryID != subCategory.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to check parent category: %w", err)
		}
		subCategory.CategoryID = *input.CategoryID
		subCategory.CategoryName = ""
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		subCategory.Name = name
	}
	if input.Description != "" {
		subCategory.Description = strings.TrimSpace(input.Description)
	}
	subCategory.UpdatedAt = time.Now()

	if err := s.subCategoryRepo.Update(ctx, subCategory); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) || errors.Is(err, repository.ErrSubCategoryNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update sub-category: %w", err)
	}

	return subCategory, nil
}

// Delete removes a subcategory. Products referencing it are left untouched.
func (s *subCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.subCategoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSubCategoryNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete sub-category: %w", err)
	}
	return nil
}
