package quote_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/quote"
	"storedesk/internal/infrastructure/storage/memory"
)

type fixture struct {
	ctx context.Context
	svc *quote.Service
	p   *product.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepo(store)
	f := &fixture{
		ctx: context.Background(),
		svc: quote.NewService(memory.NewQuoteRepo(store), products, memory.NewCustomerRepo(store),
			memory.NewNumerator(store), memory.NewTxManager(store)),
		p: product.NewProduct("Bàn học", "BH-1", "cái", types.NewMoneyFromInt(700), 4),
	}
	require.NoError(t, products.Create(f.ctx, f.p))
	return f
}

func (f *fixture) lines(qty, price int64) documents.Lines {
	return documents.Lines{{ProductID: f.p.ID, Quantity: qty, Price: types.NewMoneyFromInt(price)}}
}

func TestCreate_SnapshotsAndNumbers(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	q, err := f.svc.Create(f.ctx, quote.CreateInput{Date: &date, Items: f.lines(2, 650)})
	require.NoError(t, err)

	assert.Equal(t, "BG-2026-00001", q.Number)
	assert.Equal(t, quote.StatusNew, q.Status)
	assert.Equal(t, documents.WalkInName, q.Name)
	assert.Equal(t, "Bàn học", q.Items[0].Name)
	assert.Equal(t, "cái", q.Items[0].Unit)
	assert.True(t, q.Items[0].LineTotal.Equal(types.NewMoneyFromInt(1300)))
	assert.True(t, q.FinalAmount.Equal(types.NewMoneyFromInt(1300)))
}

func TestCreate_Rejects(t *testing.T) {
	f := newFixture(t)
	date := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	before := date.AddDate(0, 0, -1)

	tests := []struct {
		name  string
		in    quote.CreateInput
		field string
	}{
		{"no items", quote.CreateInput{}, "items"},
		{"unknown product", quote.CreateInput{Items: documents.Lines{{ProductID: id.New(), Quantity: 1}}}, "items[0].productId"},
		{"zero quantity", quote.CreateInput{Items: f.lines(0, 10)}, "items[0].quantity"},
		{"discount above total", quote.CreateInput{Items: f.lines(1, 10), DiscountAmount: types.NewMoneyFromInt(11)}, "discountAmount"},
		{"unknown customer", quote.CreateInput{Items: f.lines(1, 10), Customer: documents.CustomerRef{CustomerID: id.Ptr(id.New())}}, "customerId"},
		{"expiry before date", quote.CreateInput{Date: &date, ExpiryDate: &before, Items: f.lines(1, 10)}, "expiryDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(f.ctx, tt.in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
			appErr, _ := apperror.AsAppError(err)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestUpdate_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.Create(f.ctx, quote.CreateInput{Items: f.lines(1, 700)})
	require.NoError(t, err)

	accepted := quote.StatusAccepted
	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &accepted})
	assert.True(t, apperror.IsInvalidState(err))

	sent := quote.StatusSent
	q, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &sent, Version: q.Version})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusSent, q.Status)
	assert.Equal(t, 2, q.Version)

	discount := types.NewMoneyFromInt(100)
	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{DiscountAmount: &discount})
	assert.True(t, apperror.IsInvalidState(err), "content is frozen once sent")

	cancelled := quote.StatusCancelled
	q, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusCancelled, q.Status)

	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &sent})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestUpdate_EditWhileNew(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.Create(f.ctx, quote.CreateInput{Items: f.lines(1, 700)})
	require.NoError(t, err)

	discount := types.NewMoneyFromInt(200)
	q, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Items: f.lines(3, 700), DiscountAmount: &discount})
	require.NoError(t, err)
	assert.True(t, q.TotalAmount.Equal(types.NewMoneyFromInt(2100)))
	assert.True(t, q.FinalAmount.Equal(types.NewMoneyFromInt(1900)))

	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Version: 1, Note: new(string)})
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))
}

func TestDelete_HidesQuote(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.Create(f.ctx, quote.CreateInput{Items: f.lines(1, 700)})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, q.ID))

	_, err = f.svc.GetByID(f.ctx, q.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(f.svc.Delete(f.ctx, q.ID)))
}

func TestHooks_BeforeCreateCanVeto(t *testing.T) {
	f := newFixture(t)
	f.svc.Hooks().OnBeforeCreate(func(ctx context.Context, q *quote.Quote) error {
		if q.FinalAmount.GreaterThan(types.NewMoneyFromInt(1000)) {
			return apperror.NewValidation("quote exceeds the counter limit")
		}
		return nil
	})

	_, err := f.svc.Create(f.ctx, quote.CreateInput{Items: f.lines(2, 700)})
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdate_NoteFollowsStatus(t *testing.T) {
	f := newFixture(t)
	q, err := f.svc.Create(f.ctx, quote.CreateInput{Items: f.lines(1, 700)})
	require.NoError(t, err)

	sent := quote.StatusSent
	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &sent})
	require.NoError(t, err)

	note := "khách chê giá cao"
	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Note: &note})
	assert.True(t, apperror.IsInvalidState(err))

	cancelled := quote.StatusCancelled
	q, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &cancelled, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, quote.StatusCancelled, q.Status)
	assert.Equal(t, note, q.Note)

	edited := "sửa sau khi hủy"
	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Note: &edited})
	assert.True(t, apperror.IsInvalidState(err))
	_, err = f.svc.Update(f.ctx, q.ID, quote.UpdateInput{Status: &cancelled, Note: &edited})
	assert.True(t, apperror.IsInvalidState(err))

	got, err := f.svc.GetByID(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, note, got.Note)
}
