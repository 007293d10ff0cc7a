package product

import (
	"context"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/pkg/logger"
)

// Service is the minimal catalog surface: enough to register products
// and read their stock. Full catalog management lives elsewhere.
type Service struct {
	repo Repository
}

// NewService creates a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds the fields of a new product.
type CreateInput struct {
	Name  string
	SKU   string
	Unit  string
	Price types.Money
	Stock int64
}

// Create validates and stores a product.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	p := NewProduct(in.Name, in.SKU, in.Unit, in.Price, in.Stock)
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info(ctx, "product created", "product_id", p.ID, "sku", p.SKU, "stock", p.Stock)
	return p, nil
}

// GetByID returns a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns a page of products.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter.Normalize())
}
