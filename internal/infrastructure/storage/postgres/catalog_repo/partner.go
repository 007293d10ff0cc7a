package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/infrastructure/storage/postgres"
)

// PartnerRepo implements partner.Repository. Customers and suppliers live
// in separate tables with the same shape.
type PartnerRepo struct {
	*BaseCatalogRepo[*partner.Partner]
	kind partner.Kind
}

var _ partner.Repository = (*PartnerRepo)(nil)

// NewCustomerRepo creates the customer ledger.
func NewCustomerRepo(txm *postgres.TxManager) *PartnerRepo {
	return newPartnerRepo(txm, "cat_customers", partner.KindCustomer)
}

// NewSupplierRepo creates the supplier ledger.
func NewSupplierRepo(txm *postgres.TxManager) *PartnerRepo {
	return newPartnerRepo(txm, "cat_suppliers", partner.KindSupplier)
}

func newPartnerRepo(txm *postgres.TxManager, table string, kind partner.Kind) *PartnerRepo {
	return &PartnerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			table, string(kind),
			postgres.ExtractDBColumns[partner.Partner](),
			[]string{"name", "phone"},
			func() *partner.Partner { return &partner.Partner{Kind: kind} },
		),
		kind: kind,
	}
}

func (r *PartnerRepo) Kind() partner.Kind { return r.kind }

// List sets Kind on every row, which has no column.
func (r *PartnerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*partner.Partner], error) {
	res, err := r.BaseCatalogRepo.List(ctx, filter)
	for _, p := range res.Items {
		p.Kind = r.kind
	}
	return res, err
}

// Update writes contact fields guarded by the version. Debt is untouched.
func (r *PartnerRepo) Update(ctx context.Context, p *partner.Partner) error {
	sql, args, err := postgres.Builder().
		Update(r.tableName).
		SetMap(map[string]any{
			"name":       p.Name,
			"phone":      p.Phone,
			"email":      p.Email,
			"address":    p.Address,
			"tax_code":   p.TaxCode,
			"note":       p.Note,
			"updated_at": p.UpdatedAt,
		}).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version, "deletion_mark": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if tag.RowsAffected() == 0 {
		if ok, exErr := r.exists(ctx, p.ID); exErr == nil && !ok {
			return apperror.NewNotFound(r.entityName, p.ID.String())
		}
		return apperror.NewConcurrentModification(r.entityName, p.ID.String())
	}
	return nil
}

// AddDebt applies delta in one statement and returns the new balance.
// The table's CHECK keeps the balance non-negative.
func (r *PartnerRepo) AddDebt(ctx context.Context, partnerID id.ID, delta types.Money) (types.Money, error) {
	sql, args, err := postgres.Builder().
		Update(r.tableName).
		Set("debt", squirrel.Expr("debt + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": partnerID, "deletion_mark": false}).
		Suffix("RETURNING debt").
		ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build update: %w", err)
	}

	var balance types.Money
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Zero(), apperror.NewNotFound(r.entityName, partnerID.String())
		}
		return types.Zero(), fmt.Errorf("add debt: %w", postgres.TranslateError(err))
	}
	return balance, nil
}
