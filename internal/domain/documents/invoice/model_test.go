package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
)

func newTestInvoice() *Invoice {
	inv := NewInvoice()
	inv.Items = documents.Lines{{ProductID: id.New(), Name: "Bút bi", Quantity: 2, Price: types.MustMoney("100")}}
	inv.ShipFee = types.MustMoney("30")
	inv.DiscountAmount = types.MustMoney("10")
	inv.Recalculate()
	return inv
}

func TestInvoice_TotalsAndDebt(t *testing.T) {
	inv := newTestInvoice()
	inv.PaidAmount = types.MustMoney("50")

	assert.True(t, inv.Subtotal.Equal(types.MustMoney("200")))
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("220")))
	assert.True(t, inv.Debt().Equal(types.MustMoney("170")))
	assert.Equal(t, documents.StatePartial, inv.PaymentState())
	require.NoError(t, inv.Validate(context.Background()))
}

func TestInvoice_PaymentState(t *testing.T) {
	inv := newTestInvoice()
	assert.Equal(t, documents.StateUnpaid, inv.PaymentState())

	inv.PaidAmount = inv.TotalAmount
	assert.Equal(t, documents.StatePaid, inv.PaymentState())
	assert.True(t, inv.Debt().IsZero())
}

func TestInvoice_ValidateRejectsDrift(t *testing.T) {
	inv := newTestInvoice()
	inv.TotalAmount = types.MustMoney("999")
	assert.True(t, apperror.IsIntegrity(inv.Validate(context.Background())))

	inv = newTestInvoice()
	inv.PaidAmount = inv.TotalAmount.Add(types.MustMoney("1"))
	assert.True(t, apperror.IsIntegrity(inv.Validate(context.Background())))
}
