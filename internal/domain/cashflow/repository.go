package cashflow

import (
	"context"

	"storedesk/internal/domain"
)

// Recorder appends entries. Flows call it inside their own transaction.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// Repository persists entries. Filter.Status selects the direction.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Entry], error)
}
