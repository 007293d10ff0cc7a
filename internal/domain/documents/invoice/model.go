// Package invoice provides the sales Invoice (Hóa đơn), the financial record
// created when an order is exported.
package invoice

import (
	"context"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/entity"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
)

// Invoice is immutable after creation except for PaidAmount, which only
// grows through payments. Date is the issue date.
type Invoice struct {
	entity.Document
	documents.CustomerRef

	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`

	Items documents.Lines `db:"-" json:"items"`

	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	ShipFee        types.Money `db:"ship_fee" json:"shipFee"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
	PaidAmount     types.Money `db:"paid_amount" json:"paidAmount"`

	Delivery *documents.Delivery `db:"delivery_info" json:"deliveryInfo,omitempty"`
}

// NewInvoice creates an empty invoice dated now.
func NewInvoice() *Invoice {
	return &Invoice{
		Document:       entity.NewDocument(),
		Subtotal:       types.Zero(),
		ShipFee:        types.Zero(),
		DiscountAmount: types.Zero(),
		TotalAmount:    types.Zero(),
		PaidAmount:     types.Zero(),
	}
}

// Recalculate derives Subtotal and TotalAmount = subtotal + ship fee - discount.
func (i *Invoice) Recalculate() {
	for n := range i.Items {
		i.Items[n].Recalculate()
	}
	i.Subtotal = i.Items.Total()
	i.TotalAmount = i.Subtotal.Add(i.ShipFee).Sub(i.DiscountAmount)
}

// Debt is the outstanding balance. It is always derived from the two stored
// amounts.
func (i *Invoice) Debt() types.Money {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// PaymentState derives the settlement state.
func (i *Invoice) PaymentState() documents.PaymentState {
	return documents.PaymentStateOf(i.TotalAmount, i.PaidAmount)
}

// Validate implements entity.Validatable. Amount mismatches are integrity
// errors: invoices are built by the system, not typed by users.
func (i *Invoice) Validate(ctx context.Context) error {
	if err := i.Document.Validate(ctx); err != nil {
		return err
	}
	if err := i.Items.Validate(); err != nil {
		return err
	}
	expected := i.Items.Total().Add(i.ShipFee).Sub(i.DiscountAmount)
	if !i.TotalAmount.Equal(expected) {
		return apperror.NewIntegrity("invoice total does not reconcile with its lines").
			WithDetail("totalAmount", i.TotalAmount.String()).
			WithDetail("expected", expected.String())
	}
	if i.TotalAmount.IsNegative() {
		return apperror.NewIntegrity("invoice total is negative")
	}
	if i.PaidAmount.IsNegative() || i.PaidAmount.GreaterThan(i.TotalAmount) {
		return apperror.NewIntegrity("paid amount is outside [0, total]").
			WithDetail("paidAmount", i.PaidAmount.String())
	}
	return nil
}
