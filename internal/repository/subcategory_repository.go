package repository

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

// SubCategoryRepository defines the interface for subcategory data access
type SubCategoryRepository interface {
	Create(ctx context.Context, subCategory *domain.SubCategory) error
	List(ctx context.Context) ([]*domain.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
	FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error)
	FindByIDAndCategory(ctx context.Context, id, categoryID uuid.UUID) (*domain.SubCategory, error)
	Update(ctx context.Context, subCategory *domain.SubCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type subCategoryRepository struct {
	db *sql.DB
}

// NewSubCategoryRepository creates a new instance of SubCategoryRepository
func NewSubCategoryRepository(db *sql.DB) SubCategoryRepository {
	return &subCategoryRepository{db: db}
}

// selectWithCategory joins categories so list/find results carry the parent
// category name for display. LEFT JOIN because the parent may have been
// deleted out from under the subcategory.
const selectSubCategoryWithCategory = `
	SELECT s.id, s.name, s.description, s.category_id, s.created_at, s.updated_at,
	       COALESCE(c.name, '')
	FROM subcategories s
	LEFT JOIN categories c ON c.id = s.category_id
`

// Create inserts a new subcategory into the database
func (r *subCategoryRepository) Create(ctx context.Context, subCategory *domain.SubCategory) error {
	query := `
		INSERT INTO subcategories (id, name, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		subCategory.ID,
		subCategory.Name,
		subCategory.Description,
		subCategory.CategoryID,
		subCategory.CreatedAt,
		subCategory.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "subcategories_name_category_key") {
			return ErrSubCategoryNameTaken
		}
		return fmt.Errorf("failed to create sub-category: %w", err)
	}

	return nil
}

// List retrieves all subcategories with their category names resolved
func (r *subCategoryRepository) List(ctx context.Context) ([]*domain.SubCategory, error) {
	query := selectSubCategoryWithCategory + ` ORDER BY s.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-categories: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListByCategory retrieves all subcategories under a category. An unknown
// category yields an empty list, not an error.
func (r *subCategoryRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.SubCategory, error) {
	query := selectSubCategoryWithCategory + ` WHERE s.category_id = $1 ORDER BY s.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-categories by category: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// FindByID retrieves a subcategory by ID
func (r *subCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	query := selectSubCategoryWithCategory + ` WHERE s.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByNameAndCategory retrieves a subcategory by its (name, category) pair
func (r *subCategoryRepository) FindByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*domain.SubCategory, error) {
	query := selectSubCategoryWithCategory + ` WHERE s.name = $1 AND s.category_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name, categoryID))
}

// FindByIDAndCategory retrieves a subcategory only if it belongs to the given
// category. Used for the product subcategory/category consistency check.
func (r *subCategoryRepository) FindByIDAndCategory(ctx context.Context, id, categoryID uuid.UUID) (*domain.SubCategory, error) {
	query := selectSubCategoryWithCategory + ` WHERE s.id = $1 AND s.category_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, categoryID))
}

// Update writes all mutable fields of an existing subcategory
func (r *subCategoryRepository) Update(ctx context.Context, subCategory *domain.SubCategory) error {
	query := `
		UPDATE subcategories
		SET name = $2, description = $3, category_id = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		subCategory.ID,
		subCategory.Name,
		subCategory.Description,
		subCategory.CategoryID,
		subCategory.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "subcategories_name_category_key") {
			return ErrSubCategoryNameTaken
		}
		return fmt.Errorf("failed to update sub-category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}

// Delete removes a subcategory. Products referencing it are left untouched.
func (r *subCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subcategories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sub-category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSubCategoryNotFound
	}

	return nil
}

func (r *subCategoryRepository) scanOne(row *sql.Row) (*domain.SubCategory, error) {
	subCategory := &domain.SubCategory{}
	err := row.Scan(
		&subCategory.ID,
		&subCategory.Name,
		&subCategory.Description,
		&subCategory.CategoryID,
		&subCategory.CreatedAt,
		&subCategory.UpdatedAt,
		&subCategory.CategoryName,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSubCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find sub-category: %w", err)
	}

	return subCategory, nil
}

func (r *subCategoryRepository) scanAll(rows *sql.Rows) ([]*domain.SubCategory, error) {
	subCategories := []*domain.SubCategory{}
	for rows.Next() {
		subCategory := &domain.SubCategory{}
		err := rows.Scan(
			&subCategory.ID,
			&subCategory.Name,
			&subCategory.Description,
			&subCategory.CategoryID,
			&subCategory.CreatedAt,
			&subCategory.UpdatedAt,
			&subCategory.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sub-category: %w", err)
		}
		subCategories = append(subCategories, subCategory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sub-categories: %w", err)
	}

	return subCategories, nil
}
