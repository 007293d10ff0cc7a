// Package payment applies money received against invoices and money paid
// out against purchase receipts.
package payment

import (
	"context"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/tx"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/pkg/logger"
)

// Service records payments.
type Service struct {
	invoices  invoice.Repository
	purchases purchase.Repository
	customers partner.Ledger
	suppliers partner.Ledger
	cash      cashflow.Recorder
	txManager tx.Manager
}

// Deps groups the collaborators of Service.
type Deps struct {
	Invoices  invoice.Repository
	Purchases purchase.Repository
	Customers partner.Ledger
	Suppliers partner.Ledger
	Cash      cashflow.Recorder
	TxManager tx.Manager
}

// NewService creates a payment service.
func NewService(d Deps) *Service {
	return &Service{
		invoices:  d.Invoices,
		purchases: d.Purchases,
		customers: d.Customers,
		suppliers: d.Suppliers,
		cash:      d.Cash,
		txManager: d.TxManager,
	}
}

// Input describes one payment.
type Input struct {
	Amount types.Money

	// UpdateDebt also reduces the partner's ledger debt by Amount.
	UpdateDebt bool

	Note string
}

// InvoicePayment is the result of PayInvoice.
type InvoicePayment struct {
	Invoice *invoice.Invoice
	// CustomerDebt is set when the customer ledger was touched.
	CustomerDebt *types.Money
}

// PurchasePayment is the result of PayPurchase.
type PurchasePayment struct {
	Purchase     *purchase.Purchase
	SupplierDebt *types.Money
}

// PayInvoice adds amount to the invoice's paid amount. Calls on the same
// invoice serialize on the row lock; the repository guard rejects anything
// that would push paid past total.
func (s *Service) PayInvoice(ctx context.Context, invoiceID id.ID, in Input) (*InvoicePayment, error) {
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}

	var result *InvoicePayment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := checkOutstanding(in.Amount, inv.Debt()); err != nil {
			return err
		}

		result = &InvoicePayment{}
		if in.UpdateDebt && inv.HasCustomer() {
			balance, err := s.reduceDebt(ctx, s.customers, *inv.CustomerID, in.Amount)
			if err != nil {
				return err
			}
			result.CustomerDebt = &balance
		}

		if result.Invoice, err = s.invoices.ApplyPayment(ctx, invoiceID, in.Amount); err != nil {
			return err
		}

		e := &cashflow.Entry{
			Direction:      cashflow.DirectionReceipt,
			Category:       cashflow.CategoryInvoicePayment,
			Amount:         in.Amount,
			PartnerName:    inv.Name,
			DocumentKind:   documents.KindInvoice,
			DocumentID:     inv.ID,
			DocumentNumber: inv.Number,
			Note:           in.Note,
		}
		if inv.HasCustomer() {
			kind := partner.KindCustomer
			e.PartnerKind = &kind
			e.PartnerID = id.Ptr(*inv.CustomerID)
		}
		return s.cash.Record(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice payment applied",
		"invoice_id", result.Invoice.ID,
		"number", result.Invoice.Number,
		"amount", in.Amount.String(),
		"paid", result.Invoice.PaidAmount.String(),
		"update_debt", in.UpdateDebt,
	)
	return result, nil
}

// PayPurchase settles part of a purchase receipt against the supplier.
func (s *Service) PayPurchase(ctx context.Context, purchaseID id.ID, in Input) (*PurchasePayment, error) {
	if err := checkAmount(in.Amount); err != nil {
		return nil, err
	}

	var result *PurchasePayment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if err := checkOutstanding(in.Amount, p.Debt()); err != nil {
			return err
		}

		result = &PurchasePayment{}
		if in.UpdateDebt {
			balance, err := s.reduceDebt(ctx, s.suppliers, p.SupplierID, in.Amount)
			if err != nil {
				return err
			}
			result.SupplierDebt = &balance
		}

		if result.Purchase, err = s.purchases.ApplyPayment(ctx, purchaseID, in.Amount); err != nil {
			return err
		}

		kind := partner.KindSupplier
		return s.cash.Record(ctx, &cashflow.Entry{
			Direction:      cashflow.DirectionDisbursement,
			Category:       cashflow.CategoryPurchasePayment,
			Amount:         in.Amount,
			PartnerKind:    &kind,
			PartnerID:      id.Ptr(p.SupplierID),
			PartnerName:    p.SupplierName,
			DocumentKind:   documents.KindPurchase,
			DocumentID:     p.ID,
			DocumentNumber: p.Number,
			Note:           in.Note,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase payment applied",
		"purchase_id", result.Purchase.ID,
		"number", result.Purchase.Number,
		"amount", in.Amount.String(),
		"paid", result.Purchase.PaidAmount.String(),
		"update_debt", in.UpdateDebt,
	)
	return result, nil
}

// reduceDebt decrements a ledger. A balance that would go negative means the
// ledger has drifted from its documents; it is refused rather than clamped.
func (s *Service) reduceDebt(ctx context.Context, ledger partner.Ledger, partnerID id.ID, amount types.Money) (types.Money, error) {
	p, err := ledger.GetForUpdate(ctx, partnerID)
	if err != nil {
		return types.Money{}, err
	}
	if p.Debt.LessThan(amount) {
		logger.Warn(ctx, "ledger debt lower than payment",
			"partner_id", p.ID,
			"debt", p.Debt.String(),
			"amount", amount.String(),
		)
		return types.Money{}, apperror.NewIntegrity("partner debt would become negative").
			WithDetail("partnerId", p.ID).
			WithDetail("debt", p.Debt.String()).
			WithDetail("amount", amount.String())
	}
	return ledger.AddDebt(ctx, partnerID, amount.Neg())
}

func checkAmount(amount types.Money) error {
	if !amount.IsPositive() {
		return apperror.NewFieldValidation("amount", "amount must be greater than zero")
	}
	return nil
}

func checkOutstanding(amount, outstanding types.Money) error {
	if amount.GreaterThan(outstanding) {
		return apperror.NewFieldValidation("amount", "amount exceeds the outstanding balance").
			WithDetail("outstanding", outstanding.String())
	}
	return nil
}
