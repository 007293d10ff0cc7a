package cashflow

import (
	"context"
	"time"

	appctx "storedesk/internal/core/context"
	"storedesk/internal/core/id"
	"storedesk/internal/domain"
	"storedesk/pkg/logger"
)

// Service records and lists cash movements.
type Service struct {
	repo Repository
}

// NewService creates a cash-flow service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ Recorder = (*Service)(nil)

// Record fills identity and authorship, then appends the entry.
func (s *Service) Record(ctx context.Context, e *Entry) error {
	if id.IsNil(e.ID) {
		e.ID = id.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.CreatedBy == "" {
		e.CreatedBy = appctx.GetUserID(ctx)
	}
	if err := e.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	logger.Debug(ctx, "cash-flow recorded",
		"direction", e.Direction,
		"category", e.Category,
		"amount", e.Amount.String(),
		"document", e.DocumentNumber,
	)
	return nil
}

// List returns a page of entries, newest first.
func (s *Service) List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*Entry], error) {
	return s.repo.List(ctx, filter.Normalize())
}
