package purchase

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
)

// Repository persists purchase receipts. Filter.PartnerID selects a supplier.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error)
	GetForUpdate(ctx context.Context, purchaseID id.ID) (*Purchase, error)

	// ApplyPayment adds amount to PaidAmount only if it stays within TotalAmount.
	ApplyPayment(ctx context.Context, purchaseID id.ID, amount types.Money) (*Purchase, error)

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Purchase], error)
	Stats(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentStats, error)
}
