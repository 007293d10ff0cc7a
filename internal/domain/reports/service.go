// Package reports serves document listings together with aggregate
// statistics. It never writes.
package reports

import (
	"context"

	"storedesk/internal/core/tx"
	"storedesk/internal/domain"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/documents/quote"
)

// lister is satisfied by every document repository.
type lister[T any] interface {
	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[T], error)
	Stats(ctx context.Context, filter domain.DocumentFilter) (domain.DocumentStats, error)
}

// Service builds listing pages.
type Service struct {
	quotes    quote.Repository
	orders    order.Repository
	invoices  invoice.Repository
	purchases purchase.Repository
	txManager tx.ReadOnlyManager
}

// NewService creates a reports service.
func NewService(
	quotes quote.Repository,
	orders order.Repository,
	invoices invoice.Repository,
	purchases purchase.Repository,
	txManager tx.ReadOnlyManager,
) *Service {
	return &Service{
		quotes:    quotes,
		orders:    orders,
		invoices:  invoices,
		purchases: purchases,
		txManager: txManager,
	}
}

// ListQuotes returns a page of quotes.
func (s *Service) ListQuotes(ctx context.Context, filter domain.DocumentFilter) (domain.Page[*quote.Quote], error) {
	return page[*quote.Quote](ctx, s.txManager, s.quotes, filter)
}

// ListOrders returns a page of orders. Stats.Pending counts new orders.
func (s *Service) ListOrders(ctx context.Context, filter domain.DocumentFilter) (domain.Page[*order.Order], error) {
	return page[*order.Order](ctx, s.txManager, s.orders, filter)
}

// ListInvoices returns a page of invoices. Status filters and ByStatus use
// the derived payment state.
func (s *Service) ListInvoices(ctx context.Context, filter domain.DocumentFilter) (domain.Page[*invoice.Invoice], error) {
	return page[*invoice.Invoice](ctx, s.txManager, s.invoices, filter)
}

// ListPurchases returns a page of purchase receipts.
func (s *Service) ListPurchases(ctx context.Context, filter domain.DocumentFilter) (domain.Page[*purchase.Purchase], error) {
	return page[*purchase.Purchase](ctx, s.txManager, s.purchases, filter)
}

// page reads items and stats inside one snapshot so they agree.
func page[T any](ctx context.Context, txm tx.ReadOnlyManager, repo lister[T], filter domain.DocumentFilter) (domain.Page[T], error) {
	filter = filter.Normalize()

	var out domain.Page[T]
	err := txm.ReadOnly(ctx, func(ctx context.Context) error {
		items, err := repo.List(ctx, filter)
		if err != nil {
			return err
		}
		stats, err := repo.Stats(ctx, filter)
		if err != nil {
			return err
		}
		if items.Items == nil {
			items.Items = []T{}
		}
		out = domain.Page[T]{ListResult: items, Stats: stats}
		return nil
	})
	return out, err
}
