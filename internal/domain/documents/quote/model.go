// Package quote provides the Quote document (Báo giá): a priced proposal
// with no stock or debt effect.
package quote

import (
	"context"
	"time"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/entity"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
)

// Status is the quote lifecycle state.
type Status string

const (
	StatusNew       Status = "Mới"
	StatusSent      Status = "Đã gửi"
	StatusAccepted  Status = "Đã chốt"
	StatusCancelled Status = "Hủy"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusSent, StatusAccepted, StatusCancelled:
		return true
	}
	return false
}

// Quote is a priced proposal to a customer.
type Quote struct {
	entity.Document
	documents.CustomerRef

	Items documents.Lines `db:"-" json:"items"`

	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
	FinalAmount    types.Money `db:"final_amount" json:"finalAmount"`

	Status     Status     `db:"status" json:"status"`
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	// OrderID links the order created from this quote.
	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`
}

// NewQuote creates a quote in StatusNew.
func NewQuote() *Quote {
	return &Quote{
		Document:       entity.NewDocument(),
		Status:         StatusNew,
		DiscountAmount: types.Zero(),
	}
}

// Recalculate derives totals from the lines and discount.
func (q *Quote) Recalculate() {
	for i := range q.Items {
		q.Items[i].Recalculate()
	}
	q.TotalAmount = q.Items.Total()
	q.FinalAmount = q.TotalAmount.Sub(q.DiscountAmount)
}

// Validate implements entity.Validatable.
func (q *Quote) Validate(ctx context.Context) error {
	if err := q.Document.Validate(ctx); err != nil {
		return err
	}
	if err := q.Items.Validate(); err != nil {
		return err
	}
	if q.DiscountAmount.IsNegative() || q.DiscountAmount.GreaterThan(q.Items.Total()) {
		return apperror.NewFieldValidation("discountAmount", "discount must be between 0 and the quote total")
	}
	if !q.Status.Valid() {
		return apperror.NewFieldValidation("status", "unknown quote status").WithDetail("status", q.Status)
	}
	if q.ExpiryDate != nil && q.ExpiryDate.Before(q.Date.Truncate(24*time.Hour)) {
		return apperror.NewFieldValidation("expiryDate", "expiry date is before the quote date")
	}
	return nil
}

// CanEdit allows content edits only while the quote is new.
func (q *Quote) CanEdit() error {
	if q.Status != StatusNew {
		return apperror.NewInvalidState("quote", q.Status, "only new quotes can be edited")
	}
	return nil
}

// CanEditNote reports whether the note may change. Outside StatusNew the
// note can only travel with a cancellation, which TransitionTo validates.
func (q *Quote) CanEditNote(next *Status) error {
	if next != nil && *next == StatusCancelled && q.Status != StatusCancelled {
		return nil
	}
	return q.CanEdit()
}

// CanConvert checks the quote may become an order.
func (q *Quote) CanConvert() error {
	switch q.Status {
	case StatusNew, StatusSent:
		return nil
	case StatusAccepted:
		return apperror.NewInvalidState("quote", q.Status, "quote has already been converted to an order").
			WithDetail("orderId", q.OrderID)
	default:
		return apperror.NewInvalidState("quote", q.Status, "cancelled quote cannot be converted")
	}
}

// TransitionTo applies a manual status change. StatusAccepted is reached
// only through conversion.
func (q *Quote) TransitionTo(next Status) error {
	if !next.Valid() {
		return apperror.NewFieldValidation("status", "unknown quote status").WithDetail("status", next)
	}
	if next == q.Status {
		return nil
	}

	allowed := false
	switch next {
	case StatusSent:
		allowed = q.Status == StatusNew
	case StatusCancelled:
		allowed = q.Status == StatusNew || q.Status == StatusSent
	}
	if !allowed {
		return apperror.NewInvalidState("quote", q.Status, "status change is not allowed").
			WithDetail("target", next)
	}

	q.Status = next
	q.Touch()
	return nil
}

// MarkConverted accepts the quote and links the created order.
func (q *Quote) MarkConverted(orderID id.ID) error {
	if err := q.CanConvert(); err != nil {
		return err
	}
	q.Status = StatusAccepted
	q.OrderID = &orderID
	q.Touch()
	return nil
}
