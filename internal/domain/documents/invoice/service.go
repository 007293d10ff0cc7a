package invoice

import (
	"context"

	"storedesk/internal/core/id"
)

// Service is the read side of invoices. Creation happens only in the
// conversion package and payment in the payment package.
type Service struct {
	repo Repository
}

// NewService creates an invoice service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID returns an invoice.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	return s.repo.GetByID(ctx, invoiceID)
}
