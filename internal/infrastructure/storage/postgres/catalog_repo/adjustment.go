package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storedesk/internal/core/id"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/infrastructure/storage/postgres"
)

const adjustmentTable = "reg_debt_adjustments"

// AdjustmentRepo implements partner.AdjustmentRepository.
type AdjustmentRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ partner.AdjustmentRepository = (*AdjustmentRepo)(nil)

// NewAdjustmentRepo creates the debt adjustment log.
func NewAdjustmentRepo(txm *postgres.TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[partner.DebtAdjustment](),
	}
}

func (r *AdjustmentRepo) Create(ctx context.Context, adj *partner.DebtAdjustment) error {
	sql, args, err := postgres.Builder().
		Insert(adjustmentTable).
		SetMap(postgres.StructToMap(adj)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert debt adjustment: %w", err)
	}
	return nil
}

// ListByPartner returns the partner's adjustments, newest first.
func (r *AdjustmentRepo) ListByPartner(ctx context.Context, kind partner.Kind, partnerID id.ID) ([]*partner.DebtAdjustment, error) {
	sql, args, err := postgres.Builder().
		Select(r.cols...).
		From(adjustmentTable).
		Where(squirrel.Eq{"partner_kind": kind, "partner_id": partnerID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := make([]*partner.DebtAdjustment, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list debt adjustments: %w", err)
	}
	return out, nil
}
