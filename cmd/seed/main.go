// Package main seeds a store with a demo catalog: products, customers and
// suppliers, plus one purchase receipt so stock and supplier debt are non-zero.
package main

import (
	"context"
	"fmt"
	"os"

	"storedesk/internal/app"
	"storedesk/internal/config"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/pkg/logger"
)

var demoProducts = []product.CreateInput{
	{Name: "Gạo ST25 5kg", SKU: "GAO-ST25-5", Unit: "bao", Price: types.NewMoneyFromInt(180000), Stock: 20},
	{Name: "Nước mắm Phú Quốc 500ml", SKU: "NM-PQ-500", Unit: "chai", Price: types.NewMoneyFromInt(65000), Stock: 40},
	{Name: "Dầu ăn 1L", SKU: "DA-1L", Unit: "chai", Price: types.NewMoneyFromInt(52000), Stock: 35},
	{Name: "Đường trắng 1kg", SKU: "DT-1KG", Unit: "gói", Price: types.NewMoneyFromInt(24000), Stock: 50},
}

var demoCustomers = []partner.Contact{
	{Name: "Nguyễn Văn An", Phone: "0901234567", Address: "12 Lê Lợi, Quận 1"},
	{Name: "Trần Thị Bình", Phone: "0912345678", Address: "45 Hai Bà Trưng, Quận 3"},
}

var demoSuppliers = []partner.Contact{
	{Name: "Công ty Lương thực Miền Nam", Phone: "02838123456", TaxCode: "0301234567"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	backend, err := app.NewBackend(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize storage", "error", err)
	}
	defer backend.Close()

	services := app.NewServices(backend)

	existing, err := services.Products.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		log.Fatalw("failed to inspect catalog", "error", err)
	}
	if existing.TotalCount > 0 {
		log.Infow("catalog is not empty, nothing to seed", "products", existing.TotalCount)
		return
	}

	if err := seed(ctx, services.Products, services.Customers, services.Suppliers, services.Purchases); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}
	log.Info("demo data seeded")
}

func seed(ctx context.Context, products *product.Service, customers, suppliers *partner.Service, purchases *purchase.Service) error {
	created := make([]*product.Product, 0, len(demoProducts))
	for _, in := range demoProducts {
		p, err := products.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("product %s: %w", in.SKU, err)
		}
		created = append(created, p)
	}

	for _, c := range demoCustomers {
		if _, err := customers.Create(ctx, partner.CreateInput{Contact: c}); err != nil {
			return fmt.Errorf("customer %s: %w", c.Name, err)
		}
	}

	var supplier *partner.Partner
	for _, c := range demoSuppliers {
		s, err := suppliers.Create(ctx, partner.CreateInput{Contact: c})
		if err != nil {
			return fmt.Errorf("supplier %s: %w", c.Name, err)
		}
		supplier = s
	}

	// Restock the first product at a wholesale price, half paid.
	lines := documents.Lines{{
		ProductID: created[0].ID,
		Quantity:  10,
		Price:     types.NewMoneyFromInt(150000),
	}}
	_, err := purchases.Create(ctx, purchase.CreateInput{
		SupplierID: supplier.ID,
		Items:      lines,
		PaidAmount: types.NewMoneyFromInt(750000),
		Note:       "demo receipt",
	})
	if err != nil {
		return fmt.Errorf("purchase: %w", err)
	}
	return nil
}
