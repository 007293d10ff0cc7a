package invoice

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
)

// Repository persists invoices. There is no delete.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// GetForUpdate reads and locks the invoice, serializing payments.
	GetForUpdate(ctx context.Context, invoiceID id.ID) (*Invoice, error)

	// ApplyPayment adds amount to PaidAmount only if the result stays within
	// TotalAmount, as one guarded atomic update. Returns the updated invoice.
	ApplyPayment(ctx context.Context, invoiceID id.ID, amount types.Money) (*Invoice, error)

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Invoice], error)
	Stats(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentStats, error)
}
