package entity

import (
	"context"
	"time"

	"storedesk/internal/core/apperror"
)

// Document is the base for commercial documents (quotes, orders, invoices,
// purchase receipts).
type Document struct {
	BaseEntity

	// Number is the human-facing document number (PREFIX-YYYY-NNNNN)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"doc_date" json:"date"`

	Note string `db:"note" json:"note,omitempty"`

	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewDocument creates a Document dated now.
func NewDocument() Document {
	base := NewBaseEntity()
	return Document{
		BaseEntity: base,
		Date:       base.CreatedAt,
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewFieldValidation("date", "date is required")
	}
	return nil
}

// SetCreatedBy records the author on create.
func (d *Document) SetCreatedBy(userID string) {
	d.CreatedBy = userID
	d.UpdatedBy = userID
}

// SetUpdatedBy records the last editor.
func (d *Document) SetUpdatedBy(userID string) {
	d.UpdatedBy = userID
}
