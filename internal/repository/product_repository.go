package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

// ProductFilter narrows a product listing. All set fields apply conjunctively.
type ProductFilter struct {
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	// Keyword matches the product name case-insensitively as a substring.
	Keyword string
}

// ProductRepository defines the interface for product data access. Variations
// travel inside the product row, so every write is a single-row operation.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByCode(ctx context.Context, productCode string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// LEFT JOINs because referenced categories/subcategories may have been
// deleted; the product still lists, with an empty resolved name.
const selectProductWithRefs = `
	SELECT p.id, p.name, p.product_code, p.description, p.images,
	       p.category_id, p.subcategory_id, p.variations,
	       p.created_at, p.updated_at,
	       COALESCE(c.name, ''), COALESCE(s.name, '')
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategories s ON s.id = p.subcategory_id
`

// Create inserts a new product with its embedded variations
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, variations, err := marshalEmbedded(product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, product_code, description, images,
		                      category_id, subcategory_id, variations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.ProductCode,
		product.Description,
		images,
		product.CategoryID,
		product.SubCategoryID,
		variations,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "products_product_code_key") {
			return ErrProductCodeTaken
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update writes the whole product aggregate, variations included, in one row
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	images, variations, err := marshalEmbedded(product)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, product_code = $3, description = $4, images = $5,
		    category_id = $6, subcategory_id = $7, variations = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.ProductCode,
		product.Description,
		images,
		product.CategoryID,
		product.SubCategoryID,
		variations,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "products_product_code_key") {
			return ErrProductCodeTaken
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product and, with it, every embedded variation
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID with reference names resolved
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := selectProductWithRefs + ` WHERE p.id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

// FindByCode retrieves a product by its globally unique code
func (r *productRepository) FindByCode(ctx context.Context, productCode string) (*domain.Product, error) {
	query := selectProductWithRefs + ` WHERE p.product_code = $1`
	return scanProduct(r.db.QueryRowContext(ctx, query, productCode))
}

// List retrieves a page of products matching the filter, plus the total
// matching count. Pages are 1-based; an out-of-range page is an empty page.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	addCondition := func(condition string, value interface{}) {
		if whereClause == "" {
			whereClause = "WHERE "
		} else {
			whereClause += " AND "
		}
		whereClause += fmt.Sprintf(condition, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.CategoryID != nil {
		addCondition("p.category_id = $%d", *filter.CategoryID)
	}
	if filter.SubCategoryID != nil {
		addCondition("p.subcategory_id = $%d", *filter.SubCategoryID)
	}
	if filter.Keyword != "" {
		addCondition("p.name ILIKE $%d", "%"+filter.Keyword+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`%s %s ORDER BY p.created_at ASC LIMIT $%d OFFSET $%d`,
		selectProductWithRefs, whereClause, argIndex, argIndex+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

func marshalEmbedded(product *domain.Product) (images, variations []byte, err error) {
	imgs := product.Images
	if imgs == nil {
		imgs = []string{}
	}
	images, err = json.Marshal(imgs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	vars := product.Variations
	if vars == nil {
		vars = []domain.Variation{}
	}
	variations, err = json.Marshal(vars)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal variations: %w", err)
	}

	return images, variations, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	product, err := scanInto(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	return product, err
}

func scanProductRow(rows *sql.Rows) (*domain.Product, error) {
	product, err := scanInto(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return product, nil
}

func scanInto(s rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		images        []byte
		variations    []byte
		subCategoryID uuid.NullUUID
	)

	err := s.Scan(
		&product.ID,
		&product.Name,
		&product.ProductCode,
		&product.Description,
		&images,
		&product.CategoryID,
		&subCategoryID,
		&variations,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.CategoryName,
		&product.SubCategoryName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if subCategoryID.Valid {
		id := subCategoryID.UUID
		product.SubCategoryID = &id
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to unmarshal images: %w", err)
	}
	if err := json.Unmarshal(variations, &product.Variations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variations: %w", err)
	}

	return product, nil
}
