package order

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/domain"
)

// Repository persists orders together with their lines.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// GetForUpdate reads and locks the order until the transaction ends,
	// serializing concurrent exports of the same order.
	GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error)

	// Update writes the header and replaces lines, guarded by o.Version.
	Update(ctx context.Context, o *Order) error

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Order], error)
	Stats(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentStats, error)
}
