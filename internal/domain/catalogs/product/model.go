// Package product holds the catalog entries whose stock the document
// lifecycle consumes.
package product

import (
	"context"
	"strings"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/entity"
	"storedesk/internal/core/types"
)

// Product is a sellable catalog item.
type Product struct {
	entity.BaseEntity

	Name string `db:"name" json:"name"`
	SKU  string `db:"sku" json:"sku,omitempty"`
	Unit string `db:"unit" json:"unit,omitempty"`

	// Price is the current retail unit price. Documents snapshot it per line.
	Price types.Money `db:"price" json:"price"`

	// Stock is the on-hand quantity; never negative.
	Stock int64 `db:"stock" json:"stock"`
}

// NewProduct creates a product with generated ID.
func NewProduct(name, sku, unit string, price types.Money, stock int64) *Product {
	return &Product{
		BaseEntity: entity.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		SKU:        strings.TrimSpace(sku),
		Unit:       strings.TrimSpace(unit),
		Price:      price,
		Stock:      stock,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewFieldValidation("name", "name is required")
	}
	if p.Price.IsNegative() {
		return apperror.NewFieldValidation("price", "price must not be negative")
	}
	if p.Stock < 0 {
		return apperror.NewFieldValidation("stock", "stock must not be negative")
	}
	return nil
}
