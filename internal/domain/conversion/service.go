// Package conversion moves documents along Quote → Order → Invoice. It is
// the only place where a sale changes stock and customer debt.
package conversion

import (
	"context"
	"fmt"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/numerator"
	"storedesk/internal/core/tx"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/audit"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/quote"
	"storedesk/pkg/logger"
)

// StockKeeper decrements stock conditionally.
type StockKeeper interface {
	DecreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error)
}

// Service performs document conversions.
type Service struct {
	quotes    quote.Repository
	orders    order.Repository
	invoices  invoice.Repository
	stock     StockKeeper
	customers partner.Ledger
	cash      cashflow.Recorder
	numerator numerator.Generator
	txManager tx.Manager
}

// Deps groups the collaborators of Service.
type Deps struct {
	Quotes    quote.Repository
	Orders    order.Repository
	Invoices  invoice.Repository
	Stock     StockKeeper
	Customers partner.Ledger
	Cash      cashflow.Recorder
	Numerator numerator.Generator
	TxManager tx.Manager
}

// NewService creates a conversion service.
func NewService(d Deps) *Service {
	return &Service{
		quotes:    d.Quotes,
		orders:    d.Orders,
		invoices:  d.Invoices,
		stock:     d.Stock,
		customers: d.Customers,
		cash:      d.Cash,
		numerator: d.Numerator,
		txManager: d.TxManager,
	}
}

// QuoteConversion is the result of QuoteToOrder.
type QuoteConversion struct {
	Order *order.Order
	Quote *quote.Quote
}

// QuoteToOrder creates an order from a new or sent quote. Lines, prices,
// customer and discount are copied verbatim; nothing is re-read from the
// catalog. The quote becomes Đã chốt. No stock or debt effect.
func (s *Service) QuoteToOrder(ctx context.Context, quoteID id.ID) (*QuoteConversion, error) {
	q, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := q.CanConvert(); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixOrder), nil, q.Date)
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}

	var result *QuoteConversion
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		q, err := s.quotes.GetForUpdate(ctx, quoteID)
		if err != nil {
			return err
		}
		if err := q.CanConvert(); err != nil {
			return err
		}

		o := order.NewOrder()
		o.Number = number
		o.CustomerRef = q.CustomerRef
		o.Items = q.Items.Clone()
		o.DiscountAmount = q.DiscountAmount
		o.Note = q.Note
		o.QuoteID = id.Ptr(q.ID)
		if err := audit.EnrichCreatedBy(ctx, o); err != nil {
			return err
		}
		o.Recalculate()
		if err := o.Validate(ctx); err != nil {
			return err
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}

		if err := q.MarkConverted(o.ID); err != nil {
			return err
		}
		if err := s.quotes.Update(ctx, q); err != nil {
			return err
		}
		q.Version++

		result = &QuoteConversion{Order: o, Quote: q}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quote converted to order",
		"quote_id", result.Quote.ID,
		"quote_number", result.Quote.Number,
		"order_id", result.Order.ID,
		"order_number", result.Order.Number,
	)
	return result, nil
}

// ExportInput is the money handed over when the order is exported.
type ExportInput struct {
	// PaymentAmount may be zero, less than, or more than the amount due.
	PaymentAmount types.Money
	Note          string
}

// InvoiceConversion is the result of OrderToInvoice.
type InvoiceConversion struct {
	Invoice *invoice.Invoice
	Order   *order.Order

	// ChangeAmount is the excess over the invoice total handed back to the
	// customer. It is not kept as credit.
	ChangeAmount types.Money

	// CustomerDebt is the customer's balance after the export, when a
	// registered customer is attached.
	CustomerDebt *types.Money
}

// OrderToInvoice exports a new order. In one transaction it:
//  1. decrements stock for every line, failing with InsufficientStock on any
//     shortfall;
//  2. creates the invoice with paid = clamp(deposit + payment, 0, total);
//  3. adds the unpaid remainder to the customer's debt;
//  4. completes the order and records the cash received.
//
// Any error rolls every step back. A second call fails with InvalidState.
func (s *Service) OrderToInvoice(ctx context.Context, orderID id.ID, in ExportInput) (*InvoiceConversion, error) {
	if in.PaymentAmount.IsNegative() {
		return nil, apperror.NewFieldValidation("paymentAmount", "payment amount must not be negative")
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.CanExport(); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixInvoice), nil, o.Date)
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	var result *InvoiceConversion
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.CanExport(); err != nil {
			return err
		}

		if err := s.deductStock(ctx, o.Items); err != nil {
			return err
		}

		inv, change := buildInvoice(o, number, in)
		if err := audit.EnrichCreatedBy(ctx, inv); err != nil {
			return err
		}
		if err := inv.Validate(ctx); err != nil {
			return err
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return err
		}

		result = &InvoiceConversion{Invoice: inv, ChangeAmount: change}

		if o.HasCustomer() {
			c, err := s.customers.GetForUpdate(ctx, *o.CustomerID)
			if err != nil {
				return err
			}
			balance := c.Debt
			if remainder := inv.Debt(); remainder.IsPositive() {
				if balance, err = s.customers.AddDebt(ctx, c.ID, remainder); err != nil {
					return err
				}
			}
			result.CustomerDebt = &balance
		}

		if err := o.MarkCompleted(inv.ID); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		o.Version++
		result.Order = o

		if inv.PaidAmount.IsPositive() {
			return s.cash.Record(ctx, saleEntry(inv))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order exported to invoice",
		"order_id", result.Order.ID,
		"order_number", result.Order.Number,
		"invoice_id", result.Invoice.ID,
		"invoice_number", result.Invoice.Number,
		"total", result.Invoice.TotalAmount.String(),
		"paid", result.Invoice.PaidAmount.String(),
		"change", result.ChangeAmount.String(),
	)
	return result, nil
}

// deductStock decrements every line. Quantities for a product listed on
// several lines are merged so the shortfall report carries the full demand.
func (s *Service) deductStock(ctx context.Context, lines documents.Lines) error {
	type demand struct {
		name string
		qty  int64
	}
	seq := make([]id.ID, 0, len(lines))
	byProduct := make(map[id.ID]*demand, len(lines))
	for _, l := range lines {
		d, ok := byProduct[l.ProductID]
		if !ok {
			d = &demand{name: l.Name}
			byProduct[l.ProductID] = d
			seq = append(seq, l.ProductID)
		}
		d.qty += l.Quantity
	}

	for _, productID := range seq {
		d := byProduct[productID]
		if _, err := s.stock.DecreaseStock(ctx, productID, d.qty); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeInsufficientStock {
				return appErr.WithDetail("productName", d.name)
			}
			return err
		}
	}
	return nil
}

func buildInvoice(o *order.Order, number string, in ExportInput) (*invoice.Invoice, types.Money) {
	inv := invoice.NewInvoice()
	inv.Number = number
	inv.CustomerRef = o.CustomerRef
	inv.OrderID = id.Ptr(o.ID)
	inv.Items = o.Items.Clone()
	inv.DiscountAmount = o.DiscountAmount
	inv.ShipFee = o.Delivery.Fee()
	inv.Delivery = o.Delivery.Clone()
	inv.Note = in.Note
	if inv.Note == "" {
		inv.Note = o.Note
	}
	inv.Recalculate()

	tendered := o.PaymentAmount.Add(in.PaymentAmount)
	inv.PaidAmount = types.Clamp(tendered, types.Zero(), inv.TotalAmount)

	change := tendered.Sub(inv.PaidAmount)
	if change.IsNegative() {
		change = types.Zero()
	}
	return inv, change
}

func saleEntry(inv *invoice.Invoice) *cashflow.Entry {
	e := &cashflow.Entry{
		Direction:      cashflow.DirectionReceipt,
		Category:       cashflow.CategorySale,
		Amount:         inv.PaidAmount,
		PartnerName:    inv.Name,
		DocumentKind:   documents.KindInvoice,
		DocumentID:     inv.ID,
		DocumentNumber: inv.Number,
	}
	if inv.HasCustomer() {
		kind := partner.KindCustomer
		e.PartnerKind = &kind
		e.PartnerID = id.Ptr(*inv.CustomerID)
	}
	return e
}
