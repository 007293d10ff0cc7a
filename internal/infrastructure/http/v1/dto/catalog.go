package dto

import (
	"storedesk/internal/core/types"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
)

// --- Products ---

// CreateProductRequest is the request body for registering a product.
type CreateProductRequest struct {
	Name  string      `json:"name" binding:"required,max=255"`
	SKU   string      `json:"sku" binding:"max=64"`
	Unit  string      `json:"unit" binding:"max=32"`
	Price types.Money `json:"price"`
	Stock int64       `json:"stock" binding:"gte=0"`
}

// ToInput converts the request to a service input.
func (r *CreateProductRequest) ToInput() product.CreateInput {
	return product.CreateInput{
		Name:  r.Name,
		SKU:   r.SKU,
		Unit:  r.Unit,
		Price: r.Price,
		Stock: r.Stock,
	}
}

// --- Customers and suppliers ---

// ContactRequest holds the editable partner fields.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Phone   string `json:"phone" binding:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"max=500"`
	TaxCode string `json:"taxCode" binding:"max=32"`
	Note    string `json:"note"`
}

func (r ContactRequest) toContact() partner.Contact {
	return partner.Contact{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
		TaxCode: r.TaxCode,
		Note:    r.Note,
	}
}

// CreatePartnerRequest is the request body for creating a customer or supplier.
// Debt is accepted only to be rejected with a field error.
type CreatePartnerRequest struct {
	ContactRequest
	Debt *types.Money `json:"debt"`
}

// ToInput converts the request to a service input.
func (r *CreatePartnerRequest) ToInput() partner.CreateInput {
	return partner.CreateInput{
		Contact: r.ContactRequest.toContact(),
		Debt:    r.Debt,
	}
}

// UpdatePartnerRequest replaces contact fields. A debt different from the
// stored balance is logged as a manual adjustment.
type UpdatePartnerRequest struct {
	ContactRequest
	Version    int          `json:"version" binding:"gte=0"`
	Debt       *types.Money `json:"debt"`
	DebtReason string       `json:"debtReason" binding:"max=500"`
}

// ToInput converts the request to a service input.
func (r *UpdatePartnerRequest) ToInput() partner.UpdateInput {
	return partner.UpdateInput{
		Contact:    r.ContactRequest.toContact(),
		Version:    r.Version,
		Debt:       r.Debt,
		DebtReason: r.DebtReason,
	}
}
