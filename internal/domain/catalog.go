package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a top-level catalog category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SubCategory represents a subcategory nested under exactly one category
type SubCategory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// CategoryName is populated by list/find queries that join categories.
	// It is display data, not part of the stored record.
	CategoryName string `json:"category_name,omitempty" db:"-"`
}

// Variation is a price/stock variant embedded in its owning product.
// It has no lifecycle of its own; deleting the product deletes it.
type Variation struct {
	ID       uuid.UUID `json:"id"`
	Size     string    `json:"size,omitempty"`
	Color    string    `json:"color,omitempty"`
	Price    float64   `json:"price"`
	Discount int       `json:"discount"`
	Stock    int       `json:"stock"`
}

// Product represents a catalog product with its embedded variations
type Product struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	ProductCode   string      `json:"product_code" db:"product_code"`
	Description   string      `json:"description" db:"description"`
	Images        []string    `json:"images" db:"images"`
	CategoryID    uuid.UUID   `json:"category_id" db:"category_id"`
	SubCategoryID *uuid.UUID  `json:"subcategory_id,omitempty" db:"subcategory_id"`
	Variations    []Variation `json:"variations" db:"variations"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`

	// Resolved reference names, populated by joined queries for display.
	CategoryName    string `json:"category_name,omitempty" db:"-"`
	SubCategoryName string `json:"subcategory_name,omitempty" db:"-"`
}

// VariationByID returns the embedded variation with the given sub-identifier,
// or nil if the product does not own it.
func (p *Product) VariationByID(id uuid.UUID) *Variation {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i]
		}
	}
	return nil
}
