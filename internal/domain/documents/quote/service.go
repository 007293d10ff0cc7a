package quote

import (
	"context"
	"fmt"
	"time"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/numerator"
	"storedesk/internal/core/tx"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents"
	"storedesk/pkg/logger"
)

// Service provides quote editing. Conversion lives in the conversion package.
type Service struct {
	repo      Repository
	products  product.Lookup
	customers documents.PartnerLookup
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Quote]
}

// NewService creates a quote service.
func NewService(
	repo Repository,
	products product.Lookup,
	customers documents.PartnerLookup,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		customers: customers,
		numerator: numerator,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Quote](),
	}
}

// Hooks returns the lifecycle hook registry.
func (s *Service) Hooks() *domain.HookRegistry[*Quote] {
	return s.hooks
}

// CreateInput holds a new quote.
type CreateInput struct {
	Date           *time.Time
	Customer       documents.CustomerRef
	Items          documents.Lines
	DiscountAmount types.Money
	ExpiryDate     *time.Time
	Note           string
}

// Create validates and stores a quote in StatusNew.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Quote, error) {
	q := NewQuote()
	if in.Date != nil {
		q.Date = in.Date.UTC()
	}
	q.DiscountAmount = in.DiscountAmount
	q.ExpiryDate = in.ExpiryDate
	q.Note = in.Note

	if err := s.fill(ctx, q, in.Customer, in.Items); err != nil {
		return nil, err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, q); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixQuote), nil, q.Date)
	if err != nil {
		return nil, fmt.Errorf("generate quote number: %w", err)
	}
	q.Number = number

	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, q)
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote created", "quote_id", q.ID, "number", q.Number, "final_amount", q.FinalAmount.String())
	return q, nil
}

func (s *Service) fill(ctx context.Context, q *Quote, customer documents.CustomerRef, items documents.Lines) error {
	ref, err := documents.ResolveCustomer(ctx, s.customers, customer)
	if err != nil {
		return err
	}
	lines, err := documents.ResolveLines(ctx, s.products, items)
	if err != nil {
		return err
	}
	q.CustomerRef = ref
	q.Items = lines
	q.Recalculate()
	return q.Validate(ctx)
}

// UpdateInput is a partial update. Content fields require StatusNew;
// Status applies a manual transition after any content edit.
type UpdateInput struct {
	Version        int
	Customer       *documents.CustomerRef
	Items          documents.Lines
	DiscountAmount *types.Money
	ExpiryDate     *time.Time
	Note           *string
	Status         *Status
}

func (in UpdateInput) editsContent() bool {
	return in.Customer != nil || in.Items != nil || in.DiscountAmount != nil || in.ExpiryDate != nil
}

// Update edits a quote and/or changes its status.
func (s *Service) Update(ctx context.Context, quoteID id.ID, in UpdateInput) (*Quote, error) {
	var result *Quote

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.repo.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != q.Version {
			return apperror.NewConcurrentModification("quote", q.ID)
		}

		if in.editsContent() {
			if err := q.CanEdit(); err != nil {
				return err
			}
			customer := q.CustomerRef
			if in.Customer != nil {
				customer = *in.Customer
			}
			items := q.Items
			if in.Items != nil {
				items = in.Items
			}
			if in.DiscountAmount != nil {
				q.DiscountAmount = *in.DiscountAmount
			}
			if in.ExpiryDate != nil {
				q.ExpiryDate = in.ExpiryDate
			}
			if err := s.fill(ctx, q, customer, items); err != nil {
				return err
			}
		}
		if in.Note != nil {
			if err := q.CanEditNote(in.Status); err != nil {
				return err
			}
			q.Note = *in.Note
		}
		if in.Status != nil {
			if err := q.TransitionTo(*in.Status); err != nil {
				return err
			}
		}

		q.Touch()
		if err := s.hooks.Run(ctx, domain.BeforeUpdate, q); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, q); err != nil {
			return err
		}
		q.Version++
		result = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote updated", "quote_id", result.ID, "status", result.Status)
	return result, nil
}

// Delete soft-deletes a quote. Quotes never touch stock or debt, so there
// is nothing to reverse.
func (s *Service) Delete(ctx context.Context, quoteID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, quoteID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, quoteID)
	})
}

// GetByID returns a quote.
func (s *Service) GetByID(ctx context.Context, quoteID id.ID) (*Quote, error) {
	return s.repo.GetByID(ctx, quoteID)
}
