package order_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/infrastructure/storage/memory"
)

func money(v int64) types.Money { return types.NewMoneyFromInt(v) }

func newService(t *testing.T) (*order.Service, documents.Lines) {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepo(store)

	p := product.NewProduct("Nệm", "", "tấm", money(2000), 2)
	require.NoError(t, products.Create(context.Background(), p))

	svc := order.NewService(memory.NewOrderRepo(store), products, memory.NewCustomerRepo(store),
		memory.NewNumerator(store), memory.NewTxManager(store))
	return svc, documents.Lines{{ProductID: p.ID, Quantity: 1, Price: money(2000)}}
}

func TestCreate_DepositWithinTotal(t *testing.T) {
	svc, lines := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.CreateInput{Items: lines, PaymentAmount: money(500)})
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, o.Status)
	assert.True(t, o.TotalAmount.Equal(money(2000)))
	assert.Nil(t, o.Delivery)

	_, err = svc.Create(ctx, order.CreateInput{Items: lines, PaymentAmount: money(2001)})
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "paymentAmount", appErr.Details["field"])
}

func TestCreate_DeliveryRequiresAddressAndPhone(t *testing.T) {
	svc, lines := newService(t)

	_, err := svc.Create(context.Background(), order.CreateInput{
		Items:    lines,
		Delivery: &documents.Delivery{Phone: "0909"},
	})
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "deliveryInfo.address", appErr.Details["field"])
}

func TestUpdate_CompletionOnlyThroughExport(t *testing.T) {
	svc, lines := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.CreateInput{Items: lines})
	require.NoError(t, err)

	completed := order.StatusCompleted
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &completed})
	assert.True(t, apperror.IsInvalidState(err))

	got, err := svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, got.Status)
}

func TestUpdate_SameStatusOnlyChangesNote(t *testing.T) {
	svc, lines := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.CreateInput{Items: lines})
	require.NoError(t, err)

	status := order.StatusNew
	note := "khách hẹn chiều nhận"
	o, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &status, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, o.Status)
	assert.Equal(t, note, o.Note)
}

func TestUpdate_CancelledOrderIsFrozen(t *testing.T) {
	svc, lines := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.CreateInput{Items: lines})
	require.NoError(t, err)

	cancelled := order.StatusCancelled
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &cancelled})
	require.NoError(t, err)

	deposit := money(10)
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{PaymentAmount: &deposit})
	assert.True(t, apperror.IsInvalidState(err))

	fresh := order.StatusNew
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &fresh})
	assert.True(t, apperror.IsInvalidState(err))
}

func TestUpdate_DeliveryCanBeSetAndCleared(t *testing.T) {
	svc, lines := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.CreateInput{Items: lines})
	require.NoError(t, err)

	o, err = svc.Update(ctx, o.ID, order.UpdateInput{
		SetDelivery: true,
		Delivery:    &documents.Delivery{Address: "5 Hai Bà Trưng", Phone: "0933444555", ShipFee: money(25)},
	})
	require.NoError(t, err)
	require.NotNil(t, o.Delivery)
	assert.True(t, o.Delivery.Fee().Equal(money(25)))

	o, err = svc.Update(ctx, o.ID, order.UpdateInput{SetDelivery: true})
	require.NoError(t, err)
	assert.Nil(t, o.Delivery)
}

func TestUpdate_NoteFrozenAfterExport(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	products := memory.NewProductRepo(store)
	p := product.NewProduct("Tủ lạnh", "", "cái", money(9000), 1)
	require.NoError(t, products.Create(ctx, p))

	repo := memory.NewOrderRepo(store)
	svc := order.NewService(repo, products, memory.NewCustomerRepo(store),
		memory.NewNumerator(store), memory.NewTxManager(store))

	o, err := svc.Create(ctx, order.CreateInput{
		Items: documents.Lines{{ProductID: p.ID, Quantity: 1, Price: money(9000)}},
		Note:  "giao trước 5 giờ",
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NoError(t, stored.MarkCompleted(id.New()))
	require.NoError(t, repo.Update(ctx, stored))

	note := "sửa sau khi xuất"
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Note: &note})
	assert.True(t, apperror.IsInvalidState(err))

	cancelled := order.StatusCancelled
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &cancelled, Note: &note})
	assert.True(t, apperror.IsInvalidState(err))

	got, err := svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
	assert.Equal(t, "giao trước 5 giờ", got.Note)
}

func TestUpdate_CancelCarriesNote(t *testing.T) {
	svc, lines := newService(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, order.CreateInput{Items: lines})
	require.NoError(t, err)

	cancelled := order.StatusCancelled
	reason := "khách đổi ý"
	o, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &cancelled, Note: &reason})
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
	assert.Equal(t, reason, o.Note)

	later := "ghi chú thêm"
	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Note: &later})
	assert.True(t, apperror.IsInvalidState(err))

	_, err = svc.Update(ctx, o.ID, order.UpdateInput{Status: &cancelled, Note: &later})
	assert.True(t, apperror.IsInvalidState(err))
}
