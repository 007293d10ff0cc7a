package quote

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/domain"
)

// Repository persists quotes together with their lines.
type Repository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, quoteID id.ID) (*Quote, error)
	GetForUpdate(ctx context.Context, quoteID id.ID) (*Quote, error)

	// Update writes the header and replaces lines, guarded by q.Version.
	Update(ctx context.Context, q *Quote) error

	// Delete sets the deletion mark.
	Delete(ctx context.Context, quoteID id.ID) error

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Quote], error)
	Stats(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentStats, error)
}
