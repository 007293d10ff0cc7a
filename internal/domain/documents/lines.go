// Package documents holds the value objects shared by quotes, orders,
// invoices and purchase receipts.
package documents

import (
	"context"
	"fmt"
	"strings"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/catalogs/product"
)

// LineItem is a value snapshot of a product at the time it was added.
// It is copied, never referenced, when a document is converted.
type LineItem struct {
	ProductID id.ID       `db:"product_id" json:"productId"`
	Name      string      `db:"name" json:"name"`
	Unit      string      `db:"unit" json:"unit,omitempty"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"`
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// Recalculate sets LineTotal = Quantity × Price.
func (l *LineItem) Recalculate() {
	l.LineTotal = types.Mul(l.Price, l.Quantity)
}

// Lines is the table part of a document.
type Lines []LineItem

// Total returns Σ lineTotal, recomputed from quantity and price.
func (ls Lines) Total() types.Money {
	total := types.Zero()
	for _, l := range ls {
		total = total.Add(types.Mul(l.Price, l.Quantity))
	}
	return total
}

// Clone returns an independent copy.
func (ls Lines) Clone() Lines {
	if ls == nil {
		return nil
	}
	out := make(Lines, len(ls))
	copy(out, ls)
	return out
}

// Validate checks the shape of every line without touching storage.
func (ls Lines) Validate() error {
	if len(ls) == 0 {
		return apperror.NewFieldValidation("items", "at least one item is required")
	}
	for i, l := range ls {
		field := fmt.Sprintf("items[%d]", i)
		if id.IsNil(l.ProductID) {
			return apperror.NewFieldValidation(field+".productId", "product is required")
		}
		if l.Quantity < 1 {
			return apperror.NewFieldValidation(field+".quantity", "quantity must be at least 1").
				WithDetail("quantity", l.Quantity)
		}
		if l.Price.IsNegative() {
			return apperror.NewFieldValidation(field+".price", "price must not be negative").
				WithDetail("price", l.Price.String())
		}
	}
	return nil
}

// ResolveLines validates lines against the catalog and returns the snapshot
// to persist. Every product must exist. Missing names and units are filled
// from the catalog; prices are kept as supplied.
func ResolveLines(ctx context.Context, products product.Lookup, lines Lines) (Lines, error) {
	if err := lines.Validate(); err != nil {
		return nil, err
	}

	out := lines.Clone()
	for i := range out {
		p, err := products.GetByID(ctx, out[i].ProductID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewFieldValidation(fmt.Sprintf("items[%d].productId", i), "product does not exist").
					WithDetail("productId", out[i].ProductID.String()).
					WithCause(err)
			}
			return nil, err
		}
		if strings.TrimSpace(out[i].Name) == "" {
			out[i].Name = p.Name
		}
		if out[i].Unit == "" {
			out[i].Unit = p.Unit
		}
		out[i].Recalculate()
	}
	return out, nil
}
