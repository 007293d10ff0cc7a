package purchase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/apperror"
	appctx "storedesk/internal/core/context"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/infrastructure/storage/memory"
)

func money(v int64) types.Money { return types.NewMoneyFromInt(v) }

type fixture struct {
	ctx       context.Context
	products  *memory.ProductRepo
	suppliers *memory.PartnerRepo
	cash      *cashflow.Service
	svc       *purchase.Service

	product  *product.Product
	supplier *partner.Partner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:       context.Background(),
		products:  memory.NewProductRepo(store),
		suppliers: memory.NewSupplierRepo(store),
		cash:      cashflow.NewService(memory.NewCashflowRepo(store)),
	}
	f.svc = purchase.NewService(memory.NewPurchaseRepo(store), f.products, f.suppliers, f.cash,
		memory.NewNumerator(store), memory.NewTxManager(store))

	f.product = product.NewProduct("Dầu ăn 1L", "DA-1L", "chai", money(45000), 2)
	require.NoError(t, f.products.Create(f.ctx, f.product))

	f.supplier = partner.NewPartner(partner.KindSupplier)
	f.supplier.Name = "Công ty Tường An"
	require.NoError(t, f.suppliers.Create(f.ctx, f.supplier))
	return f
}

func (f *fixture) stock(t *testing.T) int64 {
	t.Helper()
	p, err := f.products.GetByID(f.ctx, f.product.ID)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) supplierDebt(t *testing.T) types.Money {
	t.Helper()
	s, err := f.suppliers.GetByID(f.ctx, f.supplier.ID)
	require.NoError(t, err)
	return s.Debt
}

func TestCreate_ReceivesStockAndBooksDebt(t *testing.T) {
	f := newFixture(t)
	ctx := appctx.WithUser(f.ctx, &appctx.UserContext{UserID: "kho-01"})
	total := money(400000)

	p, err := f.svc.Create(ctx, purchase.CreateInput{
		SupplierID:  f.supplier.ID,
		Items:       documents.Lines{{ProductID: f.product.ID, Quantity: 10, Price: money(40000)}},
		TotalAmount: &total,
		PaidAmount:  money(100000),
	})
	require.NoError(t, err)

	assert.Regexp(t, `^PN-\d{4}-00001$`, p.Number)
	assert.Equal(t, "Công ty Tường An", p.SupplierName)
	assert.Equal(t, "kho-01", p.CreatedBy)
	assert.Equal(t, "Dầu ăn 1L", p.Items[0].Name)
	assert.Equal(t, documents.StatePartial, p.PaymentState())

	assert.Equal(t, int64(12), f.stock(t))
	assert.True(t, f.supplierDebt(t).Equal(money(300000)))

	out, err := f.cash.List(f.ctx, domain.DocumentFilter{Status: string(cashflow.DirectionDisbursement)})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Amount.Equal(money(100000)))
	assert.Equal(t, p.ID, out.Items[0].DocumentID)
}

func TestCreate_UnpaidRecordsNoCash(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, purchase.CreateInput{
		SupplierID: f.supplier.ID,
		Items:      documents.Lines{{ProductID: f.product.ID, Quantity: 1, Price: money(40000)}},
	})
	require.NoError(t, err)

	out, err := f.cash.List(f.ctx, domain.DocumentFilter{})
	require.NoError(t, err)
	assert.Zero(t, out.TotalCount)
	assert.True(t, f.supplierDebt(t).Equal(money(40000)))
}

func TestCreate_Rejections(t *testing.T) {
	wrongTotal := money(1)

	tests := []struct {
		name  string
		input func(f *fixture) purchase.CreateInput
		check func(error) bool
	}{
		{
			name: "total does not reconcile",
			input: func(f *fixture) purchase.CreateInput {
				return purchase.CreateInput{
					SupplierID:  f.supplier.ID,
					Items:       documents.Lines{{ProductID: f.product.ID, Quantity: 2, Price: money(40000)}},
					TotalAmount: &wrongTotal,
				}
			},
			check: apperror.IsIntegrity,
		},
		{
			name: "paid above total",
			input: func(f *fixture) purchase.CreateInput {
				return purchase.CreateInput{
					SupplierID: f.supplier.ID,
					Items:      documents.Lines{{ProductID: f.product.ID, Quantity: 1, Price: money(40000)}},
					PaidAmount: money(50000),
				}
			},
			check: apperror.IsValidation,
		},
		{
			name: "no items",
			input: func(f *fixture) purchase.CreateInput {
				return purchase.CreateInput{SupplierID: f.supplier.ID}
			},
			check: apperror.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Create(f.ctx, tt.input(f))
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())

			assert.Equal(t, int64(2), f.stock(t))
			assert.True(t, f.supplierDebt(t).IsZero())
		})
	}
}
