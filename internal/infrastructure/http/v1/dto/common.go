// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"
	"time"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/domain"
)

// --- Pagination ---

// PaginationRequest contains pagination parameters.
type PaginationRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// Defaults sets default pagination values.
func (p *PaginationRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = domain.DefaultLimit
	}
}

// Offset calculates SQL offset.
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// --- Filters ---

// CatalogListQuery is the query string of product and partner lists.
type CatalogListQuery struct {
	PaginationRequest
	Search string `form:"search"`
}

// ToFilter converts the query to a domain filter.
func (q CatalogListQuery) ToFilter() domain.ListFilter {
	q.Defaults()
	return domain.ListFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  q.PageSize,
		Offset: q.Offset(),
	}
}

// DocumentListQuery is the query string of document lists.
// Dates accept YYYY-MM-DD or RFC 3339; a bare `to` date covers the whole day.
type DocumentListQuery struct {
	PaginationRequest
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
	Search     string `form:"search"`
	CustomerID string `form:"customerId" binding:"omitempty,uuid"`
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
}

const dateLayout = "2006-01-02"

// ToFilter converts the query to a domain filter.
func (q DocumentListQuery) ToFilter() (domain.DocumentFilter, error) {
	q.Defaults()
	f := domain.DocumentFilter{
		Status: strings.TrimSpace(q.Status),
		Search: strings.TrimSpace(q.Search),
		Limit:  q.PageSize,
		Offset: q.Offset(),
	}

	if q.From != "" {
		from, _, err := parseDate("from", q.From)
		if err != nil {
			return f, err
		}
		f.DateFrom = &from
	}
	if q.To != "" {
		to, dateOnly, err := parseDate("to", q.To)
		if err != nil {
			return f, err
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.DateTo = &to
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, apperror.NewFieldValidation("to", "to must not be before from")
	}

	partnerParam := q.CustomerID
	if partnerParam == "" {
		partnerParam = q.SupplierID
	}
	if partnerParam != "" {
		partnerID, err := id.Parse(partnerParam)
		if err != nil {
			return f, apperror.NewFieldValidation("partnerId", "invalid id").WithCause(err)
		}
		f.PartnerID = &partnerID
	}
	return f, nil
}

func parseDate(field, s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, apperror.NewFieldValidation(field, "date must be YYYY-MM-DD or RFC 3339").
			WithDetail("value", s)
	}
	return t.UTC(), false, nil
}

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a domain list result.
func NewListResponse[S, T any](r domain.ListResult[S], mapFn func(S) T) ListResponse[T] {
	items := make([]T, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, mapFn(item))
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// PageResponse is a document list with statistics over the filtered set.
type PageResponse[T any] struct {
	ListResponse[T]
	Stats domain.DocumentStats `json:"stats"`
}

// NewPageResponse maps a domain page.
func NewPageResponse[S, T any](p domain.Page[S], mapFn func(S) T) PageResponse[T] {
	return PageResponse[T]{
		ListResponse: NewListResponse(p.ListResult, mapFn),
		Stats:        p.Stats,
	}
}

// Same returns its argument; used when the domain type is the response.
func Same[T any](v T) T { return v }

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
