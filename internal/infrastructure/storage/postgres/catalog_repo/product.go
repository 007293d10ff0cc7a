package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/domain/catalogs/product"
	"storedesk/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			productTable, "product",
			postgres.ExtractDBColumns[product.Product](),
			[]string{"name", "sku"},
			func() *product.Product { return new(product.Product) },
		),
	}
}

// decreaseStockQuery subtracts qty only where the row still covers it.
func decreaseStockQuery(productID id.ID, qty int64) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(productTable).
		Set("stock", squirrel.Expr("stock - ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID, "deletion_mark": false}).
		Where(squirrel.GtOrEq{"stock": qty}).
		Suffix("RETURNING stock")
}

// DecreaseStock is a single conditional UPDATE; concurrent callers cannot
// both pass the guard for the same units.
func (r *ProductRepo) DecreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error) {
	sql, args, err := decreaseStockQuery(productID, qty).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	var remaining int64
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrease stock: %w", err)
	}

	// Guard failed: tell a missing product from a shortage.
	p, getErr := r.GetByID(ctx, productID)
	if getErr != nil {
		return 0, getErr
	}
	return 0, apperror.NewInsufficientStock(productID.String(), qty, p.Stock)
}

// IncreaseStock adds received quantity.
func (r *ProductRepo) IncreaseStock(ctx context.Context, productID id.ID, qty int64) (int64, error) {
	sql, args, err := postgres.Builder().
		Update(productTable).
		Set("stock", squirrel.Expr("stock + ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID, "deletion_mark": false}).
		Suffix("RETURNING stock").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	var stock int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("product", productID.String())
		}
		return 0, fmt.Errorf("increase stock: %w", postgres.TranslateError(err))
	}
	return stock, nil
}
