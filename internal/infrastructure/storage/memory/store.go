// Package memory is a process-local storage backend. It implements every
// repository and the transaction manager over mutex-guarded maps and is used
// by tests and for local development.
//
// A transaction holds the store lock for its whole duration and snapshots
// the state when it begins; if the unit of work fails the snapshot is put
// back. Stored values are never mutated in place, so a snapshot only needs
// to copy the maps.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"storedesk/internal/core/id"
	"storedesk/internal/core/tx"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/documents/quote"
)

type state struct {
	products    map[id.ID]*product.Product
	partners    map[partner.Kind]map[id.ID]*partner.Partner
	adjustments []*partner.DebtAdjustment
	quotes      map[id.ID]*quote.Quote
	orders      map[id.ID]*order.Order
	invoices    map[id.ID]*invoice.Invoice
	purchases   map[id.ID]*purchase.Purchase
	cash        []*cashflow.Entry
	sequences   map[string]int64
}

func newState() *state {
	return &state{
		products: make(map[id.ID]*product.Product),
		partners: map[partner.Kind]map[id.ID]*partner.Partner{
			partner.KindCustomer: make(map[id.ID]*partner.Partner),
			partner.KindSupplier: make(map[id.ID]*partner.Partner),
		},
		quotes:    make(map[id.ID]*quote.Quote),
		orders:    make(map[id.ID]*order.Order),
		invoices:  make(map[id.ID]*invoice.Invoice),
		purchases: make(map[id.ID]*purchase.Purchase),
		sequences: make(map[string]int64),
	}
}

func (s *state) snapshot() *state {
	return &state{
		products: maps.Clone(s.products),
		partners: map[partner.Kind]map[id.ID]*partner.Partner{
			partner.KindCustomer: maps.Clone(s.partners[partner.KindCustomer]),
			partner.KindSupplier: maps.Clone(s.partners[partner.KindSupplier]),
		},
		adjustments: append([]*partner.DebtAdjustment(nil), s.adjustments...),
		quotes:      maps.Clone(s.quotes),
		orders:      maps.Clone(s.orders),
		invoices:    maps.Clone(s.invoices),
		purchases:   maps.Clone(s.purchases),
		cash:        append([]*cashflow.Entry(nil), s.cash...),
		sequences:   maps.Clone(s.sequences),
	}
}

// Store owns the state shared by all memory repositories.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// do runs fn against the state, taking the lock unless ctx already carries
// a transaction of this store.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// TxManager implements tx.ReadOnlyManager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager for the store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// RunInTransaction runs fn with exclusive access to the store. Nested calls
// join the outer transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := m.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.st = snap
			panic(p)
		}
		if err != nil {
			s.st = snap
		}
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return fn(context.WithValue(ctx, txKey{}, s))
}

// ReadOnly runs fn under the store lock so every read sees one state.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransaction(ctx, fn)
}

// Ping implements the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
