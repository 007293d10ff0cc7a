package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/infrastructure/storage/postgres"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	schema := docSchema{
		table:          "doc_invoices",
		entityName:     "invoice",
		kind:           documents.KindInvoice,
		partnerCol:     "customer_id",
		partnerNameCol: "customer_name",
		statusExpr:     settledStatusExpr,
		stats:          settledStats,
	}
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm, schema,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return new(invoice.Invoice) },
			func(inv *invoice.Invoice) *documents.Lines { return &inv.Items },
		),
	}
}

// Create rejects a second invoice for the same order.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	err := r.BaseDocumentRepo.Create(ctx, inv)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "doc_invoices_order_id_key" {
		return apperror.NewInvalidState("order", order.StatusCompleted, "order already has an invoice").WithCause(err)
	}
	return err
}

// ApplyPayment adds amount in one guarded UPDATE.
func (r *InvoiceRepo) ApplyPayment(ctx context.Context, invoiceID id.ID, amount types.Money) (*invoice.Invoice, error) {
	if err := applySettlement(ctx, r.querier(ctx), r.schema.table, invoiceID, amount); err != nil {
		if errors.Is(err, errGuardFailed) {
			cur, getErr := r.GetByID(ctx, invoiceID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, apperror.NewFieldValidation("amount", "amount exceeds the outstanding balance").
				WithDetail("outstanding", cur.Debt().String())
		}
		return nil, err
	}
	return r.GetByID(ctx, invoiceID)
}

var errGuardFailed = errors.New("settlement guard failed")

// settlementQuery raises paid_amount only while it stays within total_amount.
func settlementQuery(table string, docID id.ID, amount types.Money) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(table).
		Set("paid_amount", squirrel.Expr("paid_amount + ?", amount)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": docID, "deletion_mark": false}).
		Where(squirrel.Expr("paid_amount + ? <= total_amount", amount)).
		Suffix("RETURNING id")
}

func applySettlement(ctx context.Context, q postgres.Querier, table string, docID id.ID, amount types.Money) error {
	sql, args, err := settlementQuery(table, docID, amount).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	var updated id.ID
	if err := q.QueryRow(ctx, sql, args...).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errGuardFailed
		}
		return fmt.Errorf("apply payment: %w", postgres.TranslateError(err))
	}
	return nil
}
