// Package purchase provides the purchase receipt (Phiếu nhập): inbound
// goods from a supplier, the mirror of a sales invoice.
package purchase

import (
	"context"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/entity"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
)

// Purchase records goods received. Line prices are cost prices. Date is the
// issue date.
type Purchase struct {
	entity.Document

	SupplierID   id.ID  `db:"supplier_id" json:"supplierId"`
	SupplierName string `db:"supplier_name" json:"supplierName"`

	Items documents.Lines `db:"-" json:"items"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	PaidAmount  types.Money `db:"paid_amount" json:"paidAmount"`
}

// NewPurchase creates an empty receipt dated now.
func NewPurchase() *Purchase {
	return &Purchase{
		Document:    entity.NewDocument(),
		TotalAmount: types.Zero(),
		PaidAmount:  types.Zero(),
	}
}

// Recalculate derives line totals and the receipt total.
func (p *Purchase) Recalculate() {
	for i := range p.Items {
		p.Items[i].Recalculate()
	}
	p.TotalAmount = p.Items.Total()
}

// Debt is what the store still owes for this receipt.
func (p *Purchase) Debt() types.Money {
	return p.TotalAmount.Sub(p.PaidAmount)
}

// PaymentState derives the settlement state.
func (p *Purchase) PaymentState() documents.PaymentState {
	return documents.PaymentStateOf(p.TotalAmount, p.PaidAmount)
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(p.SupplierID) {
		return apperror.NewFieldValidation("supplierId", "supplier is required")
	}
	if err := p.Items.Validate(); err != nil {
		return err
	}
	if p.PaidAmount.IsNegative() || p.PaidAmount.GreaterThan(p.TotalAmount) {
		return apperror.NewFieldValidation("paidAmount", "paid amount must be between 0 and the receipt total").
			WithDetail("totalAmount", p.TotalAmount.String())
	}
	return nil
}
