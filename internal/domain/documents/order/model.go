// Package order provides the sales Order document (Đơn hàng). An order is
// stock and debt neutral until it is exported to an invoice.
package order

import (
	"context"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/entity"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusNew       Status = "Mới"
	StatusCompleted Status = "Hoàn thành"
	StatusCancelled Status = "Hủy"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is an accepted intent to sell.
type Order struct {
	entity.Document
	documents.CustomerRef

	Items documents.Lines `db:"-" json:"items"`

	// DiscountAmount is carried over from a discounted quote.
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`

	// PaymentAmount is the deposit collected when the order was taken.
	PaymentAmount types.Money `db:"payment_amount" json:"paymentAmount"`

	// Delivery is nil when the goods are handed over at the counter.
	Delivery *documents.Delivery `db:"delivery_info" json:"deliveryInfo,omitempty"`

	Status Status `db:"status" json:"status"`

	QuoteID   *id.ID `db:"quote_id" json:"quoteId,omitempty"`
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`
}

// NewOrder creates an order in StatusNew.
func NewOrder() *Order {
	return &Order{
		Document:       entity.NewDocument(),
		Status:         StatusNew,
		DiscountAmount: types.Zero(),
		PaymentAmount:  types.Zero(),
	}
}

// Recalculate derives line totals and the order total.
func (o *Order) Recalculate() {
	for i := range o.Items {
		o.Items[i].Recalculate()
	}
	o.TotalAmount = o.Items.Total().Sub(o.DiscountAmount)
}

// Validate implements entity.Validatable.
func (o *Order) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}
	if err := o.Items.Validate(); err != nil {
		return err
	}
	if o.DiscountAmount.IsNegative() || o.DiscountAmount.GreaterThan(o.Items.Total()) {
		return apperror.NewFieldValidation("discountAmount", "discount must be between 0 and the order subtotal")
	}
	if o.PaymentAmount.IsNegative() {
		return apperror.NewFieldValidation("paymentAmount", "payment amount must not be negative")
	}
	if o.PaymentAmount.GreaterThan(o.TotalAmount) {
		return apperror.NewFieldValidation("paymentAmount", "deposit cannot exceed the order total").
			WithDetail("totalAmount", o.TotalAmount.String())
	}
	if err := o.Delivery.Validate(); err != nil {
		return err
	}
	if !o.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown order status").WithDetail("status", o.Status)
	}
	return nil
}

// CanEdit allows content edits only while the order is new.
func (o *Order) CanEdit() error {
	if o.Status != StatusNew {
		return apperror.NewInvalidState("order", o.Status, "only new orders can be edited")
	}
	return nil
}

// CanEditNote reports whether the note may change. Outside StatusNew the
// note can only travel with a cancellation, which TransitionTo validates.
func (o *Order) CanEditNote(next *Status) error {
	if next != nil && *next == StatusCancelled && o.Status != StatusCancelled {
		return nil
	}
	return o.CanEdit()
}

// CanExport checks the order may be converted to an invoice.
func (o *Order) CanExport() error {
	switch o.Status {
	case StatusNew:
		return nil
	case StatusCompleted:
		return apperror.NewInvalidState("order", o.Status, "order has already been exported").
			WithDetail("invoiceId", o.InvoiceID)
	default:
		return apperror.NewInvalidState("order", o.Status, "cancelled order cannot be exported")
	}
}

// TransitionTo applies a manual status change. Completion is reachable only
// by exporting the order, so it is rejected here.
func (o *Order) TransitionTo(next Status) error {
	if !next.Valid() {
		return apperror.NewFieldValidation("status", "unknown order status").WithDetail("status", next)
	}
	if next == o.Status {
		return nil
	}
	switch {
	case next == StatusCompleted:
		return apperror.NewInvalidState("order", o.Status, "orders are completed by exporting them to an invoice")
	case next == StatusCancelled && o.Status == StatusNew:
		o.Status = StatusCancelled
		o.Touch()
		return nil
	default:
		return apperror.NewInvalidState("order", o.Status, "status change is not allowed").
			WithDetail("target", next)
	}
}

// MarkCompleted finalises the order after its invoice was created.
func (o *Order) MarkCompleted(invoiceID id.ID) error {
	if err := o.CanExport(); err != nil {
		return err
	}
	o.Status = StatusCompleted
	o.InvoiceID = &invoiceID
	o.Touch()
	return nil
}
