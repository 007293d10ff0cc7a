package memory

import (
	"context"
	"slices"
	"time"

	"storedesk/internal/core/numerator"
	"storedesk/internal/domain"
	"storedesk/internal/domain/cashflow"
)

// CashflowRepo implements cashflow.Repository.
type CashflowRepo struct {
	store *Store
}

// NewCashflowRepo creates the cash-flow register.
func NewCashflowRepo(store *Store) *CashflowRepo {
	return &CashflowRepo{store: store}
}

var _ cashflow.Repository = (*CashflowRepo)(nil)

func (r *CashflowRepo) Create(ctx context.Context, e *cashflow.Entry) error {
	return r.store.do(ctx, func(st *state) error {
		cp := *e
		st.cash = append(st.cash, &cp)
		return nil
	})
}

// List returns entries newest first. Filter.Status selects the direction.
func (r *CashflowRepo) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[*cashflow.Entry], error) {
	var out domain.ListResult[*cashflow.Entry]
	err := r.store.do(ctx, func(st *state) error {
		items := make([]*cashflow.Entry, 0, len(st.cash))
		for i := len(st.cash) - 1; i >= 0; i-- {
			e := st.cash[i]
			v := docView{
				id:        e.ID,
				number:    e.DocumentNumber,
				date:      e.CreatedAt,
				status:    string(e.Direction),
				partnerID: e.PartnerID,
				partner:   e.PartnerName,
				note:      e.Note,
			}
			if v.matches(f) {
				cp := *e
				items = append(items, &cp)
			}
		}
		slices.SortStableFunc(items, func(a, b *cashflow.Entry) int { return b.CreatedAt.Compare(a.CreatedAt) })
		out = paginate(items, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// Numerator implements numerator.Generator over the store's sequences.
// Both strategies behave as Strict.
type Numerator struct {
	store *Store
}

// NewNumerator creates a document numerator.
func NewNumerator(store *Store) *Numerator {
	return &Numerator{store: store}
}

var _ numerator.Generator = (*Numerator)(nil)

func (n *Numerator) GetNextNumber(ctx context.Context, cfg numerator.Config, _ *numerator.Options, period time.Time) (string, error) {
	key := numerator.SequenceKey(cfg, period)
	var next int64
	err := n.store.do(ctx, func(st *state) error {
		st.sequences[key]++
		next = st.sequences[key]
		return nil
	})
	if err != nil {
		return "", err
	}
	return numerator.Format(cfg, period, next), nil
}
