package purchase

import (
	"context"
	"fmt"
	"time"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/numerator"
	"storedesk/internal/core/tx"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/audit"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents"
	"storedesk/pkg/logger"
)

// StockReceiver increases on-hand stock.
type StockReceiver interface {
	product.Lookup
	IncreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error)
}

// Service receives goods from suppliers.
type Service struct {
	repo      Repository
	products  StockReceiver
	suppliers partner.Ledger
	cash      cashflow.Recorder
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a purchase service.
func NewService(
	repo Repository,
	products StockReceiver,
	suppliers partner.Ledger,
	cash cashflow.Recorder,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		suppliers: suppliers,
		cash:      cash,
		numerator: numerator,
		txManager: txManager,
	}
}

// CreateInput holds a receipt. TotalAmount, when given, must equal Σ lines.
type CreateInput struct {
	SupplierID  id.ID
	IssueDate   *time.Time
	Items       documents.Lines
	TotalAmount *types.Money
	PaidAmount  types.Money
	Note        string
}

// Create records a receipt. Stock increments, the supplier debt increment
// and the cash-flow entry are applied in one transaction with the receipt.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Purchase, error) {
	p := NewPurchase()
	if in.IssueDate != nil {
		p.Date = in.IssueDate.UTC()
	}
	p.SupplierID = in.SupplierID
	p.PaidAmount = in.PaidAmount
	p.Note = in.Note
	if err := audit.EnrichCreatedBy(ctx, p); err != nil {
		return nil, err
	}

	lines, err := documents.ResolveLines(ctx, s.products, in.Items)
	if err != nil {
		return nil, err
	}
	p.Items = lines
	p.Recalculate()

	if in.TotalAmount != nil && !in.TotalAmount.Equal(p.TotalAmount) {
		return nil, apperror.NewIntegrity("totalAmount does not reconcile with the items").
			WithDetail("totalAmount", in.TotalAmount.String()).
			WithDetail("expected", p.TotalAmount.String())
	}
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixPurchase), nil, p.Date)
	if err != nil {
		return nil, fmt.Errorf("generate purchase number: %w", err)
	}
	p.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		supplier, err := s.suppliers.GetForUpdate(ctx, p.SupplierID)
		if err != nil {
			return err
		}
		p.SupplierName = supplier.Name

		for _, line := range p.Items {
			if _, err := s.products.IncreaseStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("receive %s: %w", line.Name, err)
			}
		}

		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}

		if debt := p.Debt(); debt.IsPositive() {
			if _, err := s.suppliers.AddDebt(ctx, p.SupplierID, debt); err != nil {
				return err
			}
		}

		if p.PaidAmount.IsPositive() {
			kind := partner.KindSupplier
			return s.cash.Record(ctx, &cashflow.Entry{
				Direction:      cashflow.DirectionDisbursement,
				Category:       cashflow.CategoryPurchase,
				Amount:         p.PaidAmount,
				PartnerKind:    &kind,
				PartnerID:      id.Ptr(p.SupplierID),
				PartnerName:    p.SupplierName,
				DocumentKind:   documents.KindPurchase,
				DocumentID:     p.ID,
				DocumentNumber: p.Number,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "goods received",
		"purchase_id", p.ID,
		"number", p.Number,
		"supplier_id", p.SupplierID,
		"total", p.TotalAmount.String(),
		"paid", p.PaidAmount.String(),
	)
	return p, nil
}

// GetByID returns a purchase receipt.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, purchaseID)
}
