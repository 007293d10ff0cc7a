package memory

import (
	"context"
	"slices"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/documents/quote"
)

func cloneCustomer(c documents.CustomerRef) documents.CustomerRef {
	if c.CustomerID != nil {
		c.CustomerID = id.Ptr(*c.CustomerID)
	}
	return c
}

func cloneID(v *id.ID) *id.ID {
	if v == nil {
		return nil
	}
	return id.Ptr(*v)
}

// listDocs filters, sorts and pages documents through their docView.
func listDocs[T any](all map[id.ID]T, view func(T) (docView, bool), clone func(T) T, f domain.DocumentFilter) domain.ListResult[T] {
	type row struct {
		v   docView
		doc T
	}
	rows := make([]row, 0, len(all))
	for _, d := range all {
		v, visible := view(d)
		if visible && v.matches(f) {
			rows = append(rows, row{v: v, doc: d})
		}
	}
	slices.SortFunc(rows, func(a, b row) int { return byNewest(a.v, b.v) })

	items := make([]T, len(rows))
	for i, r := range rows {
		items[i] = clone(r.doc)
	}
	return paginate(items, f.Limit, f.Offset)
}

// --- Quotes ---

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	store *Store
}

// NewQuoteRepo creates a quote repository.
func NewQuoteRepo(store *Store) *QuoteRepo {
	return &QuoteRepo{store: store}
}

var _ quote.Repository = (*QuoteRepo)(nil)

func cloneQuote(q *quote.Quote) *quote.Quote {
	cp := *q
	cp.CustomerRef = cloneCustomer(q.CustomerRef)
	cp.Items = q.Items.Clone()
	cp.OrderID = cloneID(q.OrderID)
	if q.ExpiryDate != nil {
		t := *q.ExpiryDate
		cp.ExpiryDate = &t
	}
	return &cp
}

func quoteView(q *quote.Quote) (docView, bool) {
	return docView{
		id: q.ID, number: q.Number, date: q.Date, status: string(q.Status),
		partnerID: q.CustomerID, partner: q.Name, note: q.Note,
	}, !q.DeletionMark
}

func (r *QuoteRepo) Create(ctx context.Context, q *quote.Quote) error {
	return r.store.do(ctx, func(st *state) error {
		st.quotes[q.ID] = cloneQuote(q)
		return nil
	})
}

func (r *QuoteRepo) GetByID(ctx context.Context, quoteID id.ID) (*quote.Quote, error) {
	var out *quote.Quote
	err := r.store.do(ctx, func(st *state) error {
		q, ok := st.quotes[quoteID]
		if !ok || q.DeletionMark {
			return apperror.NewNotFound("quote", quoteID)
		}
		out = cloneQuote(q)
		return nil
	})
	return out, err
}

func (r *QuoteRepo) GetForUpdate(ctx context.Context, quoteID id.ID) (*quote.Quote, error) {
	return r.GetByID(ctx, quoteID)
}

func (r *QuoteRepo) Update(ctx context.Context, q *quote.Quote) error {
	return r.store.do(ctx, func(st *state) error {
		cur, ok := st.quotes[q.ID]
		if !ok || cur.DeletionMark {
			return apperror.NewNotFound("quote", q.ID)
		}
		if cur.Version != q.Version {
			return apperror.NewConcurrentModification("quote", q.ID)
		}
		next := cloneQuote(q)
		next.Version = q.Version + 1
		st.quotes[q.ID] = next
		return nil
	})
}

func (r *QuoteRepo) Delete(ctx context.Context, quoteID id.ID) error {
	return r.store.do(ctx, func(st *state) error {
		cur, ok := st.quotes[quoteID]
		if !ok || cur.DeletionMark {
			return apperror.NewNotFound("quote", quoteID)
		}
		next := cloneQuote(cur)
		next.MarkDeleted()
		next.Version++
		st.quotes[quoteID] = next
		return nil
	})
}

func (r *QuoteRepo) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[*quote.Quote], error) {
	var out domain.ListResult[*quote.Quote]
	err := r.store.do(ctx, func(st *state) error {
		out = listDocs(st.quotes, quoteView, cloneQuote, f)
		return nil
	})
	return out, err
}

// Stats sums final amounts. Pending counts quotes still awaiting a decision.
func (r *QuoteRepo) Stats(ctx context.Context, f domain.DocumentFilter) (domain.DocumentStats, error) {
	b := newStatsBuilder()
	err := r.store.do(ctx, func(st *state) error {
		for _, q := range st.quotes {
			if v, visible := quoteView(q); visible && v.matches(f) {
				pending := q.Status == quote.StatusNew || q.Status == quote.StatusSent
				b.add(string(q.Status), q.FinalAmount, types.Zero(), types.Zero(), pending)
			}
		}
		return nil
	})
	return b.result(), err
}

// --- Orders ---

// OrderRepo implements order.Repository.
type OrderRepo struct {
	store *Store
}

// NewOrderRepo creates an order repository.
func NewOrderRepo(store *Store) *OrderRepo {
	return &OrderRepo{store: store}
}

var _ order.Repository = (*OrderRepo)(nil)

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.CustomerRef = cloneCustomer(o.CustomerRef)
	cp.Items = o.Items.Clone()
	cp.Delivery = o.Delivery.Clone()
	cp.QuoteID = cloneID(o.QuoteID)
	cp.InvoiceID = cloneID(o.InvoiceID)
	return &cp
}

func orderView(o *order.Order) (docView, bool) {
	return docView{
		id: o.ID, number: o.Number, date: o.Date, status: string(o.Status),
		partnerID: o.CustomerID, partner: o.Name, note: o.Note,
	}, !o.DeletionMark
}

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.store.do(ctx, func(st *state) error {
		st.orders[o.ID] = cloneOrder(o)
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	var out *order.Order
	err := r.store.do(ctx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok || o.DeletionMark {
			return apperror.NewNotFound("order", orderID)
		}
		out = cloneOrder(o)
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *OrderRepo) Update(ctx context.Context, o *order.Order) error {
	return r.store.do(ctx, func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok || cur.DeletionMark {
			return apperror.NewNotFound("order", o.ID)
		}
		if cur.Version != o.Version {
			return apperror.NewConcurrentModification("order", o.ID)
		}
		next := cloneOrder(o)
		next.Version = o.Version + 1
		st.orders[o.ID] = next
		return nil
	})
}

func (r *OrderRepo) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[*order.Order], error) {
	var out domain.ListResult[*order.Order]
	err := r.store.do(ctx, func(st *state) error {
		out = listDocs(st.orders, orderView, cloneOrder, f)
		return nil
	})
	return out, err
}

// Stats sums order totals and deposits. Pending counts new orders.
func (r *OrderRepo) Stats(ctx context.Context, f domain.DocumentFilter) (domain.DocumentStats, error) {
	b := newStatsBuilder()
	err := r.store.do(ctx, func(st *state) error {
		for _, o := range st.orders {
			if v, visible := orderView(o); visible && v.matches(f) {
				b.add(string(o.Status), o.TotalAmount, o.PaymentAmount, types.Zero(), o.Status == order.StatusNew)
			}
		}
		return nil
	})
	return b.result(), err
}

// --- Invoices ---

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	store *Store
}

// NewInvoiceRepo creates an invoice repository.
func NewInvoiceRepo(store *Store) *InvoiceRepo {
	return &InvoiceRepo{store: store}
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

func cloneInvoice(inv *invoice.Invoice) *invoice.Invoice {
	cp := *inv
	cp.CustomerRef = cloneCustomer(inv.CustomerRef)
	cp.Items = inv.Items.Clone()
	cp.Delivery = inv.Delivery.Clone()
	cp.OrderID = cloneID(inv.OrderID)
	return &cp
}

func invoiceView(inv *invoice.Invoice) (docView, bool) {
	return docView{
		id: inv.ID, number: inv.Number, date: inv.Date, status: string(inv.PaymentState()),
		partnerID: inv.CustomerID, partner: inv.Name, note: inv.Note,
	}, true
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.store.do(ctx, func(st *state) error {
		for _, existing := range st.invoices {
			if inv.OrderID != nil && existing.OrderID != nil && *existing.OrderID == *inv.OrderID {
				return apperror.NewInvalidState("order", "Hoàn thành", "order already has an invoice").
					WithDetail("invoiceId", existing.ID)
			}
		}
		st.invoices[inv.ID] = cloneInvoice(inv)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	var out *invoice.Invoice
	err := r.store.do(ctx, func(st *state) error {
		inv, ok := st.invoices[invoiceID]
		if !ok {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		out = cloneInvoice(inv)
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.GetByID(ctx, invoiceID)
}

func (r *InvoiceRepo) ApplyPayment(ctx context.Context, invoiceID id.ID, amount types.Money) (*invoice.Invoice, error) {
	var out *invoice.Invoice
	err := r.store.do(ctx, func(st *state) error {
		cur, ok := st.invoices[invoiceID]
		if !ok {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		paid := cur.PaidAmount.Add(amount)
		if paid.GreaterThan(cur.TotalAmount) {
			return apperror.NewFieldValidation("amount", "amount exceeds the outstanding balance").
				WithDetail("outstanding", cur.Debt().String())
		}
		next := cloneInvoice(cur)
		next.PaidAmount = paid
		next.Version++
		next.Touch()
		st.invoices[invoiceID] = next
		out = cloneInvoice(next)
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[*invoice.Invoice], error) {
	var out domain.ListResult[*invoice.Invoice]
	err := r.store.do(ctx, func(st *state) error {
		out = listDocs(st.invoices, invoiceView, cloneInvoice, f)
		return nil
	})
	return out, err
}

// Stats is keyed by payment state. Pending counts invoices not fully paid.
func (r *InvoiceRepo) Stats(ctx context.Context, f domain.DocumentFilter) (domain.DocumentStats, error) {
	b := newStatsBuilder()
	err := r.store.do(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if v, _ := invoiceView(inv); v.matches(f) {
				b.addSettled(inv.TotalAmount, inv.PaidAmount)
			}
		}
		return nil
	})
	return b.result(), err
}

// --- Purchases ---

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	store *Store
}

// NewPurchaseRepo creates a purchase receipt repository.
func NewPurchaseRepo(store *Store) *PurchaseRepo {
	return &PurchaseRepo{store: store}
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

func clonePurchase(p *purchase.Purchase) *purchase.Purchase {
	cp := *p
	cp.Items = p.Items.Clone()
	return &cp
}

func purchaseView(p *purchase.Purchase) (docView, bool) {
	return docView{
		id: p.ID, number: p.Number, date: p.Date, status: string(p.PaymentState()),
		partnerID: id.Ptr(p.SupplierID), partner: p.SupplierName, note: p.Note,
	}, true
}

func (r *PurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	return r.store.do(ctx, func(st *state) error {
		st.purchases[p.ID] = clonePurchase(p)
		return nil
	})
}

func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*purchase.Purchase, error) {
	var out *purchase.Purchase
	err := r.store.do(ctx, func(st *state) error {
		p, ok := st.purchases[purchaseID]
		if !ok {
			return apperror.NewNotFound("purchase", purchaseID)
		}
		out = clonePurchase(p)
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (*purchase.Purchase, error) {
	return r.GetByID(ctx, purchaseID)
}

func (r *PurchaseRepo) ApplyPayment(ctx context.Context, purchaseID id.ID, amount types.Money) (*purchase.Purchase, error) {
	var out *purchase.Purchase
	err := r.store.do(ctx, func(st *state) error {
		cur, ok := st.purchases[purchaseID]
		if !ok {
			return apperror.NewNotFound("purchase", purchaseID)
		}
		paid := cur.PaidAmount.Add(amount)
		if paid.GreaterThan(cur.TotalAmount) {
			return apperror.NewFieldValidation("amount", "amount exceeds the outstanding balance").
				WithDetail("outstanding", cur.Debt().String())
		}
		next := clonePurchase(cur)
		next.PaidAmount = paid
		next.Version++
		next.Touch()
		st.purchases[purchaseID] = next
		out = clonePurchase(next)
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[*purchase.Purchase], error) {
	var out domain.ListResult[*purchase.Purchase]
	err := r.store.do(ctx, func(st *state) error {
		out = listDocs(st.purchases, purchaseView, clonePurchase, f)
		return nil
	})
	return out, err
}

// Stats is keyed by payment state, as for invoices.
func (r *PurchaseRepo) Stats(ctx context.Context, f domain.DocumentFilter) (domain.DocumentStats, error) {
	b := newStatsBuilder()
	err := r.store.do(ctx, func(st *state) error {
		for _, p := range st.purchases {
			if v, _ := purchaseView(p); v.matches(f) {
				b.addSettled(p.TotalAmount, p.PaidAmount)
			}
		}
		return nil
	})
	return b.result(), err
}
