// Package app assembles repositories, services and the HTTP router for one
// storage backend.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"storedesk/internal/config"
	"storedesk/internal/core/numerator"
	"storedesk/internal/core/tx"
	"storedesk/internal/domain/audit"
	"storedesk/internal/domain/auth"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/conversion"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/documents/quote"
	"storedesk/internal/domain/payment"
	"storedesk/internal/domain/reports"
	v1 "storedesk/internal/infrastructure/http/v1"
	"storedesk/internal/infrastructure/http/v1/handlers"
	pgnumerator "storedesk/internal/infrastructure/numerator"
	"storedesk/internal/infrastructure/storage/memory"
	"storedesk/internal/infrastructure/storage/postgres"
	"storedesk/internal/infrastructure/storage/postgres/catalog_repo"
	"storedesk/internal/infrastructure/storage/postgres/document_repo"
	"storedesk/internal/infrastructure/storage/postgres/register_repo"
	"storedesk/pkg/logger"
)

// Backend is one storage implementation of every repository.
type Backend struct {
	Driver string

	Products    product.Repository
	Customers   partner.Repository
	Suppliers   partner.Repository
	Adjustments partner.AdjustmentRepository
	Quotes      quote.Repository
	Orders      order.Repository
	Invoices    invoice.Repository
	Purchases   purchase.Repository
	Cashflow    cashflow.Repository
	Numerator   numerator.Generator
	TxManager   tx.ReadOnlyManager

	// Storage is pinged by the readiness probe.
	Storage handlers.Pinger

	close func()
}

// Close releases backend resources.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// NewMemoryBackend returns an empty process-local backend.
func NewMemoryBackend() *Backend {
	store := memory.NewStore()
	return &Backend{
		Driver:      config.DriverMemory,
		Products:    memory.NewProductRepo(store),
		Customers:   memory.NewCustomerRepo(store),
		Suppliers:   memory.NewSupplierRepo(store),
		Adjustments: memory.NewAdjustmentRepo(store),
		Quotes:      memory.NewQuoteRepo(store),
		Orders:      memory.NewOrderRepo(store),
		Invoices:    memory.NewInvoiceRepo(store),
		Purchases:   memory.NewPurchaseRepo(store),
		Cashflow:    memory.NewCashflowRepo(store),
		Numerator:   memory.NewNumerator(store),
		TxManager:   memory.NewTxManager(store),
		Storage:     store,
	}
}

// NewPostgresBackend connects to the database and, when configured, applies
// pending migrations.
func NewPostgresBackend(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.URL)
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	postgres.LogPoolStats(ctx, pool)

	txm := postgres.NewTxManager(pool)
	return &Backend{
		Driver:      config.DriverPostgres,
		Products:    catalog_repo.NewProductRepo(txm),
		Customers:   catalog_repo.NewCustomerRepo(txm),
		Suppliers:   catalog_repo.NewSupplierRepo(txm),
		Adjustments: catalog_repo.NewAdjustmentRepo(txm),
		Quotes:      document_repo.NewQuoteRepo(txm),
		Orders:      document_repo.NewOrderRepo(txm),
		Invoices:    document_repo.NewInvoiceRepo(txm),
		Purchases:   document_repo.NewPurchaseRepo(txm),
		Cashflow:    register_repo.NewCashflowRepo(txm),
		Numerator:   pgnumerator.New(pool, cfg.NumberingOptions()),
		TxManager:   txm,
		Storage:     pool,
		close:       pool.Close,
	}, nil
}

// NewBackend selects the backend named by cfg.StorageDriver.
func NewBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn(ctx, "using in-memory storage; data is lost on exit")
		return NewMemoryBackend(), nil
	case config.DriverPostgres:
		return NewPostgresBackend(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewServices wires the domain services over a backend.
func NewServices(b *Backend) v1.Services {
	cash := cashflow.NewService(b.Cashflow)

	quotes := quote.NewService(b.Quotes, b.Products, b.Customers, b.Numerator, b.TxManager)
	quotes.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*quote.Quote])
	quotes.Hooks().OnBeforeUpdate(audit.EnrichUpdatedBy[*quote.Quote])

	orders := order.NewService(b.Orders, b.Products, b.Customers, b.Numerator, b.TxManager)
	orders.Hooks().OnBeforeCreate(audit.EnrichCreatedBy[*order.Order])
	orders.Hooks().OnBeforeUpdate(audit.EnrichUpdatedBy[*order.Order])

	return v1.Services{
		Products:  product.NewService(b.Products),
		Customers: partner.NewService(b.Customers, b.Adjustments, b.TxManager),
		Suppliers: partner.NewService(b.Suppliers, b.Adjustments, b.TxManager),
		Quotes:    quotes,
		Orders:    orders,
		Invoices:  invoice.NewService(b.Invoices),
		Purchases: purchase.NewService(b.Purchases, b.Products, b.Suppliers, cash, b.Numerator, b.TxManager),
		Conversion: conversion.NewService(conversion.Deps{
			Quotes:    b.Quotes,
			Orders:    b.Orders,
			Invoices:  b.Invoices,
			Stock:     b.Products,
			Customers: b.Customers,
			Cash:      cash,
			Numerator: b.Numerator,
			TxManager: b.TxManager,
		}),
		Payments: payment.NewService(payment.Deps{
			Invoices:  b.Invoices,
			Purchases: b.Purchases,
			Customers: b.Customers,
			Suppliers: b.Suppliers,
			Cash:      cash,
			TxManager: b.TxManager,
		}),
		Reports:  reports.NewService(b.Quotes, b.Orders, b.Invoices, b.Purchases, b.TxManager),
		Cashflow: cash,
	}
}

// NewRouter builds the HTTP handler for a backend. Authentication is on
// only when a JWT secret is configured.
func NewRouter(cfg *config.Config, b *Backend, log *logger.Logger) (*gin.Engine, error) {
	rc := v1.RouterConfig{
		Logger:        log,
		Storage:       b.Storage,
		StorageDriver: b.Driver,
		CORSOrigins:   cfg.CORSOrigins,
		Debug:         cfg.App.IsDevelopment(),
		Services:      NewServices(b),
	}
	if cfg.Auth.Enabled() {
		rc.JWTValidator = auth.NewVerifier(auth.JWTConfig{
			Secret: cfg.Auth.JWTSecret,
			Issuer: cfg.Auth.Issuer,
			Leeway: cfg.Auth.Leeway,
		})
	}
	return v1.NewRouter(rc)
}
