package order

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

// Service provides order entry and editing. Export to invoice lives in the
// conversion package.
type Service struct {
	repo      Repository
	products  product.Lookup
	customers documents.PartnerLookup
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Order]
}

// NewService creates an order service.
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
		hooks:     domain.NewHookRegistry[*Order](),
	}
}

// Hooks returns the lifecycle hook registry.
func (s *Service) Hooks() *domain.HookRegistry[*Order] {
	return s.hooks
}

// CreateInput holds a new order.
type CreateInput struct {
	Date          *time.Time
	Customer      documents.CustomerRef
	Items         documents.Lines
	PaymentAmount types.Money
	Delivery      *documents.Delivery
	Note          string
}

// Create validates and stores an order in StatusNew.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	o := NewOrder()
	if in.Date != nil {
		o.Date = in.Date.UTC()
	}
	o.PaymentAmount = in.PaymentAmount
	o.Delivery = in.Delivery.Clone()
	o.Note = in.Note

	if err := s.fill(ctx, o, in.Customer, in.Items); err != nil {
		return nil, err
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, o); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixOrder), nil, o.Date)
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}
	o.Number = number

	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, o)
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "order created", "order_id", o.ID, "number", o.Number, "total", o.TotalAmount.String())
	return o, nil
}

func (s *Service) fill(ctx context.Context, o *Order, customer documents.CustomerRef, items documents.Lines) error {
	ref, err := documents.ResolveCustomer(ctx, s.customers, customer)
	if err != nil {
		return err
	}
	lines, err := documents.ResolveLines(ctx, s.products, items)
	if err != nil {
		return err
	}
	o.CustomerRef = ref
	o.Items = lines
	o.Recalculate()
	return o.Validate(ctx)
}

// UpdateInput is a partial update (PUT /orders/{id}). Content fields require
// StatusNew. Status may only move to Hủy; Hoàn thành is rejected.
type UpdateInput struct {
	Version       int
	Customer      *documents.CustomerRef
	Items         documents.Lines
	PaymentAmount *types.Money
	// SetDelivery replaces Delivery (nil clears it) when true.
	SetDelivery bool
	Delivery    *documents.Delivery
	Note        *string
	Status      *Status
}

func (in UpdateInput) editsContent() bool {
	return in.Customer != nil || in.Items != nil || in.PaymentAmount != nil || in.SetDelivery
}

// Update edits an order and/or changes its status.
func (s *Service) Update(ctx context.Context, orderID id.ID, in UpdateInput) (*Order, error) {
	var result *Order

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if in.Version != 0 && in.Version != o.Version {
			return apperror.NewConcurrentModification("order", o.ID)
		}

		if in.editsContent() {
			if err := o.CanEdit(); err != nil {
				return err
			}
			customer := o.CustomerRef
			if in.Customer != nil {
				customer = *in.Customer
			}
			items := o.Items
			if in.Items != nil {
				items = in.Items
			}
			if in.PaymentAmount != nil {
				o.PaymentAmount = *in.PaymentAmount
			}
			if in.SetDelivery {
				o.Delivery = in.Delivery.Clone()
			}
			if err := s.fill(ctx, o, customer, items); err != nil {
				return err
			}
		}
		if in.Note != nil {
			if err := o.CanEditNote(in.Status); err != nil {
				return err
			}
			o.Note = *in.Note
		}
		if in.Status != nil {
			if err := o.TransitionTo(*in.Status); err != nil {
				return err
			}
		}

		o.Touch()
		if err := s.hooks.Run(ctx, domain.BeforeUpdate, o); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, o); err != nil {
			return err
		}
		o.Version++
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order updated", "order_id", result.ID, "status", result.Status)
	return result, nil
}

// GetByID returns an order.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}
