package memory

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/documents"
)

// containsFold reports whether any field contains needle, ignoring case.
// An empty needle matches everything.
func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, offset int) domain.ListResult[T] {
	total := len(items)
	start := min(offset, total)
	end := min(start+limit, total)
	return domain.ListResult[T]{
		Items:      slices.Clone(items[start:end]),
		TotalCount: int64(total),
		Limit:      limit,
		Offset:     offset,
	}
}

// docView is the part of a document the listing filter looks at.
type docView struct {
	id        id.ID
	number    string
	date      time.Time
	status    string
	partnerID *id.ID
	partner   string
	note      string
}

func (v docView) matches(f domain.DocumentFilter) bool {
	if f.Status != "" && v.status != f.Status {
		return false
	}
	if f.DateFrom != nil && v.date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && v.date.After(*f.DateTo) {
		return false
	}
	if f.PartnerID != nil && (v.partnerID == nil || *v.partnerID != *f.PartnerID) {
		return false
	}
	return containsFold(f.Search, v.number, v.partner, v.note)
}

// byNewest orders documents by date, then number, newest first.
func byNewest(a, b docView) int {
	return cmp.Or(b.date.Compare(a.date), cmp.Compare(b.number, a.number), cmp.Compare(a.id.String(), b.id.String()))
}

// statsBuilder accumulates DocumentStats.
type statsBuilder struct {
	s domain.DocumentStats
}

func newStatsBuilder() *statsBuilder {
	return &statsBuilder{s: domain.DocumentStats{
		TotalAmount: types.Zero(),
		PaidAmount:  types.Zero(),
		DebtAmount:  types.Zero(),
		ByStatus:    make(map[string]int64),
	}}
}

func (b *statsBuilder) add(status string, total, paid, debt types.Money, pending bool) {
	b.s.Count++
	b.s.TotalAmount = b.s.TotalAmount.Add(total)
	b.s.PaidAmount = b.s.PaidAmount.Add(paid)
	b.s.DebtAmount = b.s.DebtAmount.Add(debt)
	b.s.ByStatus[status]++
	if pending {
		b.s.Pending++
	}
}

// addSettled accumulates an invoice or purchase keyed by payment state.
func (b *statsBuilder) addSettled(total, paid types.Money) {
	state := documents.PaymentStateOf(total, paid)
	b.add(string(state), total, paid, total.Sub(paid), state != documents.StatePaid)
}

func (b *statsBuilder) result() domain.DocumentStats {
	return b.s
}
