// Package domain provides types shared by the domain services.
package domain

import (
	"context"
	"time"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
)

// --- Filter & Pagination ---

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListFilter contains filtering options for catalog lists (products, partners).
type ListFilter struct {
	// Search matches name and the secondary code (sku, phone)
	Search string

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Normalize applies default and maximum page sizes.
func (f ListFilter) Normalize() ListFilter {
	f.Limit, f.Offset = normalizePage(f.Limit, f.Offset)
	return f
}

// DocumentFilter selects documents for listing and statistics.
// The same filter drives both, so a page and its stats never disagree.
type DocumentFilter struct {
	// Status is the document status (or derived payment state for invoices
	// and purchases). Empty means any.
	Status string

	// DateFrom and DateTo bound the document date, inclusive.
	DateFrom *time.Time
	DateTo   *time.Time

	// Search matches number, partner name and note.
	Search string

	// PartnerID restricts to a customer (sales documents) or supplier (purchases).
	PartnerID *id.ID

	Limit  int
	Offset int
}

// Normalize applies default and maximum page sizes.
func (f DocumentFilter) Normalize() DocumentFilter {
	f.Limit, f.Offset = normalizePage(f.Limit, f.Offset)
	return f
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// DocumentStats aggregates a filtered document set.
type DocumentStats struct {
	Count       int64            `json:"count"`
	TotalAmount types.Money      `json:"totalAmount"`
	PaidAmount  types.Money      `json:"paidAmount"`
	DebtAmount  types.Money      `json:"debtAmount"`
	Pending     int64            `json:"pendingCount"`
	ByStatus    map[string]int64 `json:"byStatus"`
}

// Page is a listing page plus statistics over the whole filtered set.
type Page[T any] struct {
	ListResult[T]
	Stats DocumentStats `json:"stats"`
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnAfterCreate registers a hook to run after a successful create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}
