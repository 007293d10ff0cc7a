// Package register_repo provides PostgreSQL implementations for registers.
package register_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storedesk/internal/domain"
	"storedesk/internal/domain/cashflow"
	"storedesk/internal/infrastructure/storage/postgres"
)

const cashflowTable = "reg_cashflow"

// CashflowRepo implements cashflow.Repository. Entries are append-only.
type CashflowRepo struct {
	txm  *postgres.TxManager
	cols []string
}

var _ cashflow.Repository = (*CashflowRepo)(nil)

// NewCashflowRepo creates the cash-flow register.
func NewCashflowRepo(txm *postgres.TxManager) *CashflowRepo {
	return &CashflowRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[cashflow.Entry](),
	}
}

func (r *CashflowRepo) Create(ctx context.Context, e *cashflow.Entry) error {
	sql, args, err := postgres.Builder().
		Insert(cashflowTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert cashflow entry: %w", postgres.TranslateError(err))
	}
	return nil
}

func listQuery(cols []string, f domain.DocumentFilter) squirrel.SelectBuilder {
	q := postgres.Builder().Select(cols...).From(cashflowTable)

	if f.Status != "" {
		q = q.Where(squirrel.Eq{"direction": f.Status})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.DateTo})
	}
	if f.PartnerID != nil {
		q = q.Where(squirrel.Eq{"partner_id": *f.PartnerID})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"document_number": pattern},
			squirrel.ILike{"partner_name": pattern},
			squirrel.ILike{"note": pattern},
		})
	}
	return q
}

// List returns entries newest first. Filter.Status selects the direction.
func (r *CashflowRepo) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[*cashflow.Entry], error) {
	result := domain.ListResult[*cashflow.Entry]{
		Items:  make([]*cashflow.Entry, 0),
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := listQuery(r.cols, f)
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC", "id DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list cashflow: %w", err)
	}
	return result, nil
}
