package documents

import (
	"context"
	"strings"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/domain/catalogs/partner"
)

// WalkInName labels sales to unregistered customers.
const WalkInName = "Khách lẻ"

// CustomerRef snapshots who a sales document is for. CustomerID is set for
// registered customers; walk-in customers carry only the text fields.
type CustomerRef struct {
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`
	Name       string `db:"customer_name" json:"customerName"`
	Phone      string `db:"customer_phone" json:"customerPhone,omitempty"`
	Address    string `db:"customer_address" json:"customerAddress,omitempty"`
}

// HasCustomer reports whether a registered customer is attached.
func (c CustomerRef) HasCustomer() bool {
	return c.CustomerID != nil && !id.IsNil(*c.CustomerID)
}

// PartnerLookup reads partners by ID.
type PartnerLookup interface {
	GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error)
}

// ResolveCustomer checks a registered customer exists and fills blank
// snapshot fields from it. Walk-in references get a default name.
func ResolveCustomer(ctx context.Context, customers PartnerLookup, ref CustomerRef) (CustomerRef, error) {
	ref.Name = strings.TrimSpace(ref.Name)
	if !ref.HasCustomer() {
		ref.CustomerID = nil
		if ref.Name == "" {
			ref.Name = WalkInName
		}
		return ref, nil
	}

	c, err := customers.GetByID(ctx, *ref.CustomerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return ref, apperror.NewFieldValidation("customerId", "customer does not exist").
				WithDetail("customerId", ref.CustomerID.String()).
				WithCause(err)
		}
		return ref, err
	}
	if ref.Name == "" {
		ref.Name = c.Name
	}
	if ref.Phone == "" {
		ref.Phone = c.Phone
	}
	if ref.Address == "" {
		ref.Address = c.Address
	}
	return ref, nil
}
