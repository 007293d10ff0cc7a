package partner

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
)

// Ledger is the debt-side contract used by the conversion, payment and
// purchase flows.
type Ledger interface {
	// GetForUpdate reads the partner and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, partnerID id.ID) (*Partner, error)

	// AddDebt atomically adds delta (which may be negative) and returns the new balance.
	AddDebt(ctx context.Context, partnerID id.ID, delta types.Money) (types.Money, error)
}

// Repository persists one kind of partner.
type Repository interface {
	Ledger

	Kind() Kind
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, partnerID id.ID) (*Partner, error)

	// Update writes contact fields with an optimistic version check.
	// Debt is never written here.
	Update(ctx context.Context, p *Partner) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Partner], error)
}

// AdjustmentRepository stores the debt adjustment log.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *DebtAdjustment) error
	ListByPartner(ctx context.Context, kind Kind, partnerID id.ID) ([]*DebtAdjustment, error)
}
