package product

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/domain"
)

// Repository persists products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)

	// DecreaseStock subtracts qty only if the current stock covers it, as one
	// atomic conditional update. Returns the remaining stock, NotFound, or
	// InsufficientStock carrying the available quantity. Never clamps.
	DecreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error)

	// IncreaseStock adds received quantity and returns the new stock.
	IncreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error)
}

// Lookup is the read side other modules need to validate line items.
type Lookup interface {
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
}
