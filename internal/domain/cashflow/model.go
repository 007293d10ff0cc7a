// Package cashflow is the append-only register of money received and paid out.
package cashflow

import (
	"context"
	"time"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/documents"
)

// Direction of a cash movement.
type Direction string

const (
	DirectionReceipt      Direction = "thu"
	DirectionDisbursement Direction = "chi"
)

// Category explains what caused the movement.
type Category string

const (
	// CategorySale is money collected when an order is exported.
	CategorySale Category = "sale"
	// CategoryInvoicePayment is a later payment against an invoice.
	CategoryInvoicePayment Category = "invoice_payment"
	// CategoryPurchase is money paid when goods are received.
	CategoryPurchase Category = "purchase"
	// CategoryPurchasePayment is a later payment against a purchase receipt.
	CategoryPurchasePayment Category = "purchase_payment"
)

// Entry is one cash movement tied to the document that caused it.
type Entry struct {
	ID        id.ID       `db:"id" json:"id"`
	Direction Direction   `db:"direction" json:"direction"`
	Category  Category    `db:"category" json:"category"`
	Amount    types.Money `db:"amount" json:"amount"`

	PartnerKind *partner.Kind `db:"partner_kind" json:"partnerKind,omitempty"`
	PartnerID   *id.ID        `db:"partner_id" json:"partnerId,omitempty"`
	PartnerName string        `db:"partner_name" json:"partnerName,omitempty"`

	DocumentKind   documents.Kind `db:"document_kind" json:"documentKind"`
	DocumentID     id.ID          `db:"document_id" json:"documentId"`
	DocumentNumber string         `db:"document_number" json:"documentNumber"`

	Note      string    `db:"note" json:"note,omitempty"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate implements entity.Validatable.
func (e *Entry) Validate(ctx context.Context) error {
	if e.Direction != DirectionReceipt && e.Direction != DirectionDisbursement {
		return apperror.NewFieldValidation("direction", "unknown cash-flow direction")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewFieldValidation("amount", "cash-flow amount must be positive")
	}
	if id.IsNil(e.DocumentID) {
		return apperror.NewFieldValidation("documentId", "cash-flow entry must reference a document")
	}
	return nil
}
