package partner

import (
	"context"
	"strings"
	"time"

	"storedesk/internal/core/apperror"
	appctx "storedesk/internal/core/context"
	"storedesk/internal/core/id"
	"storedesk/internal/core/tx"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/pkg/logger"
)

const defaultAdjustmentReason = "manual correction"

// Service manages one partner kind.
type Service struct {
	repo        Repository
	adjustments AdjustmentRepository
	txManager   tx.Manager
}

// NewService creates a partner service bound to repo's kind.
func NewService(repo Repository, adjustments AdjustmentRepository, txManager tx.Manager) *Service {
	return &Service{
		repo:        repo,
		adjustments: adjustments,
		txManager:   txManager,
	}
}

// Kind returns the partner kind this service manages.
func (s *Service) Kind() Kind {
	return s.repo.Kind()
}

// Contact holds the editable, non-ledger fields.
type Contact struct {
	Name    string
	Phone   string
	Email   string
	Address string
	TaxCode string
	Note    string
}

func (c Contact) applyTo(p *Partner) {
	p.Name = strings.TrimSpace(c.Name)
	p.Phone = strings.TrimSpace(c.Phone)
	p.Email = strings.TrimSpace(c.Email)
	p.Address = strings.TrimSpace(c.Address)
	p.TaxCode = strings.TrimSpace(c.TaxCode)
	p.Note = c.Note
}

// CreateInput holds a new partner. Debt must be absent: balances start at
// zero and only the document flows move them.
type CreateInput struct {
	Contact
	Debt *types.Money
}

// Create validates and stores a partner.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Partner, error) {
	if in.Debt != nil {
		return nil, apperror.NewFieldValidation("debt", "debt cannot be set on create")
	}

	p := NewPartner(s.repo.Kind())
	in.Contact.applyTo(p)
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info(ctx, "partner created", "kind", p.Kind, "partner_id", p.ID)
	return p, nil
}

// UpdateInput replaces contact fields and optionally overrides debt.
type UpdateInput struct {
	Contact

	// Version, when non-zero, must match the stored version.
	Version int

	// Debt, when set and different from the stored balance, is applied as
	// a delta and recorded as a DebtAdjustment.
	Debt       *types.Money
	DebtReason string
}

// Update edits a partner. A debt override is written together with its
// adjustment entry in one transaction.
func (s *Service) Update(ctx context.Context, partnerID id.ID, in UpdateInput) (*Partner, error) {
	if in.Debt != nil && in.Debt.IsNegative() {
		return nil, apperror.NewFieldValidation("debt", "debt cannot be negative").
			WithDetail("value", in.Debt.String())
	}

	var result *Partner

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, partnerID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != p.Version {
			return apperror.NewConcurrentModification(string(p.Kind), p.ID)
		}

		in.Contact.applyTo(p)
		if err := p.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		p.Version++

		if in.Debt != nil && !in.Debt.Equal(p.Debt) {
			if err := s.adjustDebt(ctx, p, *in.Debt, in.DebtReason); err != nil {
				return err
			}
		}

		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) adjustDebt(ctx context.Context, p *Partner, target types.Money, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = defaultAdjustmentReason
	}

	previous := p.Debt
	delta := target.Sub(previous)

	balance, err := s.repo.AddDebt(ctx, p.ID, delta)
	if err != nil {
		return err
	}

	adj := &DebtAdjustment{
		ID:           id.New(),
		PartnerKind:  p.Kind,
		PartnerID:    p.ID,
		PreviousDebt: previous,
		NewDebt:      balance,
		Delta:        delta,
		Reason:       reason,
		CreatedBy:    appctx.GetUserID(ctx),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return err
	}

	p.Debt = balance
	logger.Warn(ctx, "partner debt adjusted manually",
		"kind", p.Kind,
		"partner_id", p.ID,
		"previous", previous.String(),
		"new", balance.String(),
		"reason", reason,
	)
	return nil
}

// GetByID returns a partner.
func (s *Service) GetByID(ctx context.Context, partnerID id.ID) (*Partner, error) {
	return s.repo.GetByID(ctx, partnerID)
}

// List returns a page of partners.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Partner], error) {
	return s.repo.List(ctx, filter.Normalize())
}

// Adjustments returns the manual debt adjustment log of a partner.
func (s *Service) Adjustments(ctx context.Context, partnerID id.ID) ([]*DebtAdjustment, error) {
	if _, err := s.repo.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}
	return s.adjustments.ListByPartner(ctx, s.repo.Kind(), partnerID)
}
