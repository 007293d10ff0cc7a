// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/documents"
	"storedesk/internal/infrastructure/storage/postgres"
)

const linesTable = "doc_lines"

// docSchema describes how one document kind is stored and filtered.
type docSchema struct {
	table      string
	entityName string
	kind       documents.Kind

	// partnerCol and partnerNameCol hold the customer or supplier reference.
	partnerCol     string
	partnerNameCol string

	// statusExpr is the column or derived expression compared against
	// DocumentFilter.Status and grouped by in Stats.
	statusExpr string

	stats statsSpec
}

// statsSpec holds the aggregate expressions for Stats.
type statsSpec struct {
	total   string
	paid    string
	debt    string
	pending squirrel.Sqlizer
}

// settledStatusExpr derives the payment state from the stored amounts.
var settledStatusExpr = fmt.Sprintf(
	"CASE WHEN paid_amount >= total_amount THEN '%s' WHEN paid_amount > 0 THEN '%s' ELSE '%s' END",
	documents.StatePaid, documents.StatePartial, documents.StateUnpaid,
)

var settledStats = statsSpec{
	total:   "total_amount",
	paid:    "paid_amount",
	debt:    "total_amount - paid_amount",
	pending: squirrel.Expr("paid_amount < total_amount"),
}

// BaseDocumentRepo provides header CRUD, line storage, listing and
// statistics for one document kind.
type BaseDocumentRepo[T any] struct {
	txm        *postgres.TxManager
	schema     docSchema
	selectCols []string
	newFn      func() T
	linesOf    func(T) *documents.Lines
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txm *postgres.TxManager,
	schema docSchema,
	selectCols []string,
	newFn func() T,
	linesOf func(T) *documents.Lines,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txm:        txm,
		schema:     schema,
		selectCols: selectCols,
		newFn:      newFn,
		linesOf:    linesOf,
	}
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts the header and its lines. Callers run it in a transaction.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := postgres.Builder().
		Insert(r.schema.table).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.schema.table, postgres.TranslateError(err))
	}

	docID, _ := data["id"].(id.ID)
	return r.saveLines(ctx, docID, *r.linesOf(entity))
}

// Update rewrites the header and lines with optimistic locking.
// The stored version becomes entity's version + 1; entity is not modified.
func (r *BaseDocumentRepo[T]) Update(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	docID, ok := data["id"].(id.ID)
	if !ok {
		return fmt.Errorf("entity has no 'id' field")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	// Exclude immutable fields
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "created_at", "created_by", "version", "updated_at":
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := postgres.Builder().
		Update(r.schema.table).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": docID, "version": version, "deletion_mark": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.schema.table, postgres.TranslateError(err))
	}
	if result.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, docID); getErr != nil {
			return getErr
		}
		return apperror.NewConcurrentModification(r.schema.entityName, docID.String())
	}

	return r.saveLines(ctx, docID, *r.linesOf(entity))
}

// Delete soft-deletes a document.
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := postgres.Builder().
		Update(r.schema.table).
		Set("deletion_mark", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID, "deletion_mark": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.schema.table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.schema.entityName, entityID.String())
	}
	return nil
}

// baseSelect creates a SELECT builder over live documents.
func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(r.selectCols...).
		From(r.schema.table).
		Where(squirrel.Eq{"deletion_mark": false})
}

func (r *BaseDocumentRepo[T]) get(ctx context.Context, entityID id.ID, lock bool) (T, error) {
	entity := r.newFn()
	q := r.baseSelect().Where(squirrel.Eq{"id": entityID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.schema.entityName, entityID.String())
		}
		return entity, fmt.Errorf("get %s: %w", r.schema.table, err)
	}

	lines, err := r.loadLines(ctx, []id.ID{entityID})
	if err != nil {
		return entity, err
	}
	*r.linesOf(entity) = lines[entityID]
	return entity, nil
}

// GetByID retrieves a document with its lines.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	return r.get(ctx, entityID, false)
}

// GetForUpdate retrieves a document and locks its row.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (T, error) {
	return r.get(ctx, entityID, true)
}

// applyFilter adds the DocumentFilter conditions shared by List and Stats.
func (r *BaseDocumentRepo[T]) applyFilter(q squirrel.SelectBuilder, f domain.DocumentFilter) squirrel.SelectBuilder {
	if f.Status != "" {
		q = q.Where(squirrel.Expr(r.schema.statusExpr+" = ?", f.Status))
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"doc_date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"doc_date": *f.DateTo})
	}
	if f.PartnerID != nil {
		q = q.Where(squirrel.Eq{r.schema.partnerCol: *f.PartnerID})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{r.schema.partnerNameCol: pattern},
			squirrel.ILike{"note": pattern},
		})
	}
	return q
}

// List retrieves a page of documents, newest first, with their lines.
func (r *BaseDocumentRepo[T]) List(ctx context.Context, f domain.DocumentFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Items:  make([]T, 0),
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.applyFilter(r.baseSelect(), f)
	querier := r.querier(ctx)

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("doc_date DESC", "number DESC", "id")
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
		return result, fmt.Errorf("list %s: %w", r.schema.table, err)
	}

	if len(result.Items) == 0 {
		return result, nil
	}
	ids := make([]id.ID, len(result.Items))
	for i, item := range result.Items {
		v, _ := postgres.ColumnValue(item, "id")
		ids[i], _ = v.(id.ID)
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return result, err
	}
	for i, item := range result.Items {
		*r.linesOf(item) = lines[ids[i]]
	}
	return result, nil
}

// statsRow is one GROUP BY bucket.
type statsRow struct {
	Status  string      `db:"status"`
	Count   int64       `db:"cnt"`
	Total   types.Money `db:"total"`
	Paid    types.Money `db:"paid"`
	Debt    types.Money `db:"debt"`
	Pending int64       `db:"pending"`
}

// statsQuery aggregates the filtered set grouped by status.
func (r *BaseDocumentRepo[T]) statsQuery(f domain.DocumentFilter) squirrel.SelectBuilder {
	s := r.schema.stats
	pendingSQL, pendingArgs, _ := s.pending.ToSql()

	q := postgres.Builder().
		Select(
			r.schema.statusExpr+" AS status",
			"COUNT(*) AS cnt",
			"COALESCE(SUM("+s.total+"), 0) AS total",
			"COALESCE(SUM("+s.paid+"), 0) AS paid",
			"COALESCE(SUM("+s.debt+"), 0) AS debt",
		).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE "+pendingSQL+") AS pending", pendingArgs...)).
		From(r.schema.table).
		Where(squirrel.Eq{"deletion_mark": false})

	return r.applyFilter(q, f).GroupBy("1")
}

// Stats aggregates the same set List pages through.
func (r *BaseDocumentRepo[T]) Stats(ctx context.Context, f domain.DocumentFilter) (domain.DocumentStats, error) {
	stats := domain.DocumentStats{
		TotalAmount: types.Zero(),
		PaidAmount:  types.Zero(),
		DebtAmount:  types.Zero(),
		ByStatus:    make(map[string]int64),
	}

	sql, args, err := r.statsQuery(f).ToSql()
	if err != nil {
		return stats, fmt.Errorf("build stats: %w", err)
	}

	var rows []statsRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return stats, fmt.Errorf("stats %s: %w", r.schema.table, err)
	}

	for _, row := range rows {
		stats.Count += row.Count
		stats.TotalAmount = stats.TotalAmount.Add(row.Total)
		stats.PaidAmount = stats.PaidAmount.Add(row.Paid)
		stats.DebtAmount = stats.DebtAmount.Add(row.Debt)
		stats.Pending += row.Pending
		stats.ByStatus[row.Status] = row.Count
	}
	return stats, nil
}

// --- Lines ---

type lineRow struct {
	DocumentID id.ID `db:"document_id"`
	documents.LineItem
}

func (r *BaseDocumentRepo[T]) loadLines(ctx context.Context, docIDs []id.ID) (map[id.ID]documents.Lines, error) {
	sql, args, err := postgres.Builder().
		Select("document_id", "product_id", "name", "unit", "quantity", "price", "line_total").
		From(linesTable).
		Where(squirrel.Eq{"document_kind": r.schema.kind, "document_id": docIDs}).
		OrderBy("document_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var rows []lineRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	out := make(map[id.ID]documents.Lines, len(docIDs))
	for _, row := range rows {
		out[row.DocumentID] = append(out[row.DocumentID], row.LineItem)
	}
	return out, nil
}

// saveLines replaces the document's lines (delete existing + insert new).
func (r *BaseDocumentRepo[T]) saveLines(ctx context.Context, docID id.ID, lines documents.Lines) error {
	querier := r.querier(ctx)

	delSQL, delArgs, err := postgres.Builder().
		Delete(linesTable).
		Where(squirrel.Eq{"document_kind": r.schema.kind, "document_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := postgres.Builder().
		Insert(linesTable).
		Columns("document_kind", "document_id", "line_no", "product_id", "name", "unit", "quantity", "price", "line_total")
	for i, l := range lines {
		q = q.Values(r.schema.kind, docID, i+1, l.ProductID, l.Name, l.Unit, l.Quantity, l.Price, l.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", postgres.TranslateError(err))
	}
	return nil
}
