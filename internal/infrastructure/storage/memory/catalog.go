package memory

import (
	"cmp"
	"context"
	"slices"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
)

// --- Products ---

// ProductRepo implements product.Repository.
type ProductRepo struct {
	store *Store
}

// NewProductRepo creates a product repository.
func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

var _ product.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	return r.store.do(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return apperror.NewValidation("product already exists").WithDetail("id", p.ID)
		}
		cp := *p
		st.products[p.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var out *product.Product
	err := r.store.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.DeletionMark {
			return apperror.NewNotFound("product", productID)
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	var out domain.ListResult[*product.Product]
	err := r.store.do(ctx, func(st *state) error {
		items := make([]*product.Product, 0, len(st.products))
		for _, p := range st.products {
			if p.DeletionMark && !filter.IncludeDeleted {
				continue
			}
			if !containsFold(filter.Search, p.Name, p.SKU) {
				continue
			}
			cp := *p
			items = append(items, &cp)
		}
		slices.SortFunc(items, func(a, b *product.Product) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
		})
		out = paginate(items, filter.Limit, filter.Offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) DecreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error) {
	var remaining int64
	err := r.store.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.DeletionMark {
			return apperror.NewNotFound("product", productID)
		}
		if p.Stock < qty {
			return apperror.NewInsufficientStock(productID.String(), qty, p.Stock)
		}
		cp := *p
		cp.Stock -= qty
		cp.Touch()
		st.products[productID] = &cp
		remaining = cp.Stock
		return nil
	})
	return remaining, err
}

func (r *ProductRepo) IncreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error) {
	var stock int64
	err := r.store.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.DeletionMark {
			return apperror.NewNotFound("product", productID)
		}
		cp := *p
		cp.Stock += qty
		cp.Touch()
		st.products[productID] = &cp
		stock = cp.Stock
		return nil
	})
	return stock, err
}

// --- Partners ---

// PartnerRepo implements partner.Repository for one kind.
type PartnerRepo struct {
	store *Store
	kind  partner.Kind
}

// NewCustomerRepo creates the customer ledger.
func NewCustomerRepo(store *Store) *PartnerRepo {
	return &PartnerRepo{store: store, kind: partner.KindCustomer}
}

// NewSupplierRepo creates the supplier ledger.
func NewSupplierRepo(store *Store) *PartnerRepo {
	return &PartnerRepo{store: store, kind: partner.KindSupplier}
}

var _ partner.Repository = (*PartnerRepo)(nil)

func (r *PartnerRepo) Kind() partner.Kind { return r.kind }

func (r *PartnerRepo) Create(ctx context.Context, p *partner.Partner) error {
	return r.store.do(ctx, func(st *state) error {
		cp := *p
		cp.Kind = r.kind
		st.partners[r.kind][p.ID] = &cp
		return nil
	})
}

func (r *PartnerRepo) get(st *state, partnerID id.ID) (*partner.Partner, error) {
	p, ok := st.partners[r.kind][partnerID]
	if !ok || p.DeletionMark {
		return nil, apperror.NewNotFound(string(r.kind), partnerID)
	}
	cp := *p
	return &cp, nil
}

func (r *PartnerRepo) GetByID(ctx context.Context, partnerID id.ID) (*partner.Partner, error) {
	var out *partner.Partner
	err := r.store.do(ctx, func(st *state) (err error) {
		out, err = r.get(st, partnerID)
		return err
	})
	return out, err
}

// GetForUpdate is GetByID; the transaction already holds the store lock.
func (r *PartnerRepo) GetForUpdate(ctx context.Context, partnerID id.ID) (*partner.Partner, error) {
	return r.GetByID(ctx, partnerID)
}

func (r *PartnerRepo) Update(ctx context.Context, p *partner.Partner) error {
	return r.store.do(ctx, func(st *state) error {
		cur, err := r.get(st, p.ID)
		if err != nil {
			return err
		}
		if cur.Version != p.Version {
			return apperror.NewConcurrentModification(string(r.kind), p.ID)
		}
		cur.Name = p.Name
		cur.Phone = p.Phone
		cur.Email = p.Email
		cur.Address = p.Address
		cur.TaxCode = p.TaxCode
		cur.Note = p.Note
		cur.UpdatedAt = p.UpdatedAt
		cur.Version = p.Version + 1
		st.partners[r.kind][p.ID] = cur
		return nil
	})
}

func (r *PartnerRepo) AddDebt(ctx context.Context, partnerID id.ID, delta types.Money) (types.Money, error) {
	var balance types.Money
	err := r.store.do(ctx, func(st *state) error {
		cur, err := r.get(st, partnerID)
		if err != nil {
			return err
		}
		cur.Debt = cur.Debt.Add(delta)
		cur.Touch()
		st.partners[r.kind][partnerID] = cur
		balance = cur.Debt
		return nil
	})
	return balance, err
}

func (r *PartnerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*partner.Partner], error) {
	var out domain.ListResult[*partner.Partner]
	err := r.store.do(ctx, func(st *state) error {
		items := make([]*partner.Partner, 0, len(st.partners[r.kind]))
		for _, p := range st.partners[r.kind] {
			if p.DeletionMark && !filter.IncludeDeleted {
				continue
			}
			if !containsFold(filter.Search, p.Name, p.Phone) {
				continue
			}
			cp := *p
			items = append(items, &cp)
		}
		slices.SortFunc(items, func(a, b *partner.Partner) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
		})
		out = paginate(items, filter.Limit, filter.Offset)
		return nil
	})
	return out, err
}

// --- Debt adjustments ---

// AdjustmentRepo implements partner.AdjustmentRepository.
type AdjustmentRepo struct {
	store *Store
}

// NewAdjustmentRepo creates the debt adjustment log.
func NewAdjustmentRepo(store *Store) *AdjustmentRepo {
	return &AdjustmentRepo{store: store}
}

var _ partner.AdjustmentRepository = (*AdjustmentRepo)(nil)

func (r *AdjustmentRepo) Create(ctx context.Context, adj *partner.DebtAdjustment) error {
	return r.store.do(ctx, func(st *state) error {
		cp := *adj
		st.adjustments = append(st.adjustments, &cp)
		return nil
	})
}

func (r *AdjustmentRepo) ListByPartner(ctx context.Context, kind partner.Kind, partnerID id.ID) ([]*partner.DebtAdjustment, error) {
	var out []*partner.DebtAdjustment
	err := r.store.do(ctx, func(st *state) error {
		out = make([]*partner.DebtAdjustment, 0)
		for i := len(st.adjustments) - 1; i >= 0; i-- {
			a := st.adjustments[i]
			if a.PartnerKind == kind && a.PartnerID == partnerID {
				cp := *a
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}
