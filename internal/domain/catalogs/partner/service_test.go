package partner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/apperror"
	appctx "storedesk/internal/core/context"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/infrastructure/storage/memory"
)

func newCustomerService() (*partner.Service, *memory.PartnerRepo) {
	store := memory.NewStore()
	repo := memory.NewCustomerRepo(store)
	return partner.NewService(repo, memory.NewAdjustmentRepo(store), memory.NewTxManager(store)), repo
}

func TestCreate_RejectsDebt(t *testing.T) {
	svc, _ := newCustomerService()
	debt := types.NewMoneyFromInt(500)

	_, err := svc.Create(context.Background(), partner.CreateInput{
		Contact: partner.Contact{Name: "Chú Ba"},
		Debt:    &debt,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "debt", appErr.Details["field"])
}

func TestCreate_StartsAtZero(t *testing.T) {
	svc, _ := newCustomerService()

	p, err := svc.Create(context.Background(), partner.CreateInput{Contact: partner.Contact{Name: "  Chú Ba  "}})
	require.NoError(t, err)
	assert.Equal(t, "Chú Ba", p.Name)
	assert.Equal(t, partner.KindCustomer, p.Kind)
	assert.True(t, p.Debt.IsZero())
}

func TestCreate_RequiresName(t *testing.T) {
	svc, _ := newCustomerService()
	_, err := svc.Create(context.Background(), partner.CreateInput{})
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdate_DebtOverrideIsLogged(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "ketoan-01"})
	svc, repo := newCustomerService()

	p, err := svc.Create(ctx, partner.CreateInput{Contact: partner.Contact{Name: "Cô Tám"}})
	require.NoError(t, err)
	_, err = repo.AddDebt(ctx, p.ID, types.NewMoneyFromInt(300))
	require.NoError(t, err)

	target := types.NewMoneyFromInt(120)
	updated, err := svc.Update(ctx, p.ID, partner.UpdateInput{
		Contact:    partner.Contact{Name: "Cô Tám", Phone: "0912000333"},
		Version:    p.Version,
		Debt:       &target,
		DebtReason: "đối soát cuối tháng",
	})
	require.NoError(t, err)
	assert.True(t, updated.Debt.Equal(target))
	assert.Equal(t, "0912000333", updated.Phone)
	assert.Equal(t, 2, updated.Version)

	log, err := svc.Adjustments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.True(t, log[0].PreviousDebt.Equal(types.NewMoneyFromInt(300)))
	assert.True(t, log[0].NewDebt.Equal(target))
	assert.True(t, log[0].Delta.Equal(types.NewMoneyFromInt(-180)))
	assert.Equal(t, "đối soát cuối tháng", log[0].Reason)
	assert.Equal(t, "ketoan-01", log[0].CreatedBy)
}

func TestUpdate_SameDebtWritesNoAdjustment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService()

	p, err := svc.Create(ctx, partner.CreateInput{Contact: partner.Contact{Name: "Anh Tú"}})
	require.NoError(t, err)

	zero := types.Zero()
	_, err = svc.Update(ctx, p.ID, partner.UpdateInput{Contact: partner.Contact{Name: "Anh Tú"}, Debt: &zero})
	require.NoError(t, err)

	log, err := svc.Adjustments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestUpdate_StaleVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomerService()

	p, err := svc.Create(ctx, partner.CreateInput{Contact: partner.Contact{Name: "Anh Tú"}})
	require.NoError(t, err)
	_, err = svc.Update(ctx, p.ID, partner.UpdateInput{Contact: partner.Contact{Name: "Anh Tú 2"}, Version: p.Version})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, partner.UpdateInput{Contact: partner.Contact{Name: "Anh Tú 3"}, Version: p.Version})
	assert.True(t, apperror.HasCode(err, apperror.CodeConcurrentModification))
}

func TestAdjustments_UnknownPartner(t *testing.T) {
	svc, _ := newCustomerService()
	_, err := svc.Adjustments(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_NegativeDebtOverrideIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCustomerService()

	p, err := svc.Create(ctx, partner.CreateInput{Contact: partner.Contact{Name: "Chị Hai"}})
	require.NoError(t, err)
	_, err = repo.AddDebt(ctx, p.ID, types.NewMoneyFromInt(80))
	require.NoError(t, err)

	negative := types.NewMoneyFromInt(-50)
	_, err = svc.Update(ctx, p.ID, partner.UpdateInput{
		Contact: partner.Contact{Name: "Chị Hai"},
		Debt:    &negative,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "debt", appErr.Details["field"])

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Debt.Equal(types.NewMoneyFromInt(80)))

	log, err := svc.Adjustments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestCreate_EmailFormat(t *testing.T) {
	svc, _ := newCustomerService()

	tests := []struct {
		email string
		valid bool
	}{
		{"", true},
		{"ba.nguyen@example.vn", true},
		{"ba@", false},
		{"@example.vn", false},
		{"ba nguyen@example.vn", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			_, err := svc.Create(context.Background(), partner.CreateInput{
				Contact: partner.Contact{Name: "Chú Ba", Email: tt.email},
			})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, "email", appErr.Details["field"])
		})
	}
}
