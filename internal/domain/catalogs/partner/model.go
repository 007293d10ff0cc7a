// Package partner holds customers and suppliers together with their running
// debt balance.
package partner

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/entity"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
)

// Kind distinguishes the two ledgers.
type Kind string

const (
	// KindCustomer debt is what the customer owes the store.
	KindCustomer Kind = "customer"
	// KindSupplier debt is what the store owes the supplier.
	KindSupplier Kind = "supplier"
)

// Partner is a customer or supplier.
type Partner struct {
	entity.BaseEntity

	Kind    Kind   `db:"-" json:"kind"`
	Name    string `db:"name" json:"name"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
	TaxCode string `db:"tax_code" json:"taxCode,omitempty"`
	Note    string `db:"note" json:"note,omitempty"`

	// Debt is maintained by explicit increments from conversions, purchases
	// and payments, and by logged manual adjustments.
	Debt types.Money `db:"debt" json:"debt"`
}

// NewPartner creates a partner with zero debt.
func NewPartner(kind Kind) *Partner {
	return &Partner{
		BaseEntity: entity.NewBaseEntity(),
		Kind:       kind,
		Debt:       types.Zero(),
	}
}

// contactValidator applies the same rules the HTTP binding uses.
var contactValidator = validator.New()

// Validate implements entity.Validatable.
func (p *Partner) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewFieldValidation("name", "name is required")
	}
	if p.Email != "" && contactValidator.Var(p.Email, "email") != nil {
		return apperror.NewFieldValidation("email", "email is malformed")
	}
	return nil
}

// DebtAdjustment records a manual override of a partner's debt.
type DebtAdjustment struct {
	ID           id.ID       `db:"id" json:"id"`
	PartnerKind  Kind        `db:"partner_kind" json:"partnerKind"`
	PartnerID    id.ID       `db:"partner_id" json:"partnerId"`
	PreviousDebt types.Money `db:"previous_debt" json:"previousDebt"`
	NewDebt      types.Money `db:"new_debt" json:"newDebt"`
	Delta        types.Money `db:"delta" json:"delta"`
	Reason       string      `db:"reason" json:"reason"`
	CreatedBy    string      `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}
