package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain"
	"storedesk/internal/domain/documents"
)

func TestApplyFilter_InvoiceFiltersOnDerivedState(t *testing.T) {
	repo := NewInvoiceRepo(nil)
	customerID := id.New()

	q := repo.applyFilter(repo.baseSelect(), domain.DocumentFilter{
		Status:    string(documents.StatePartial),
		PartnerID: &customerID,
		Search:    " lan ",
	})
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM doc_invoices WHERE deletion_mark = $1 AND "+settledStatusExpr+" = $2 AND customer_id = $3")
	assert.Contains(t, sql, "(number ILIKE $4 OR customer_name ILIKE $5 OR note ILIKE $6)")
	assert.Equal(t, []any{false, "Thanh toán một phần", customerID, "%lan%", "%lan%", "%lan%"}, args)
}

func TestApplyFilter_PurchaseUsesSupplierColumns(t *testing.T) {
	repo := NewPurchaseRepo(nil)
	supplierID := id.New()

	sql, _, err := repo.applyFilter(repo.baseSelect(), domain.DocumentFilter{
		PartnerID: &supplierID,
		Search:    "thép",
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "supplier_id = $2")
	assert.Contains(t, sql, "supplier_name ILIKE $4")
	assert.NotContains(t, sql, "customer_")
}

func TestStatsQuery_QuotesGroupByStatus(t *testing.T) {
	repo := NewQuoteRepo(nil)

	sql, args, err := repo.statsQuery(domain.DocumentFilter{}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT status AS status, COUNT(*) AS cnt, COALESCE(SUM(final_amount), 0) AS total, "+
			"COALESCE(SUM(0), 0) AS paid, COALESCE(SUM(0), 0) AS debt, "+
			"COUNT(*) FILTER (WHERE status IN ($1,$2)) AS pending "+
			"FROM doc_quotes WHERE deletion_mark = $3 GROUP BY 1",
		sql)
	assert.Equal(t, []any{"Mới", "Đã gửi", false}, args)
}

func TestStatsQuery_InvoiceDebtIsOutstanding(t *testing.T) {
	repo := NewInvoiceRepo(nil)

	sql, _, err := repo.statsQuery(domain.DocumentFilter{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "COALESCE(SUM(total_amount - paid_amount), 0) AS debt")
	assert.Contains(t, sql, "COUNT(*) FILTER (WHERE paid_amount < total_amount) AS pending")
}

func TestSettlementQuery_Guarded(t *testing.T) {
	docID := id.New()
	amount := types.NewMoneyFromInt(250)

	sql, args, err := settlementQuery("doc_invoices", docID, amount).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE doc_invoices SET paid_amount = paid_amount + $1, version = version + 1, updated_at = NOW() "+
			"WHERE deletion_mark = $2 AND id = $3 AND paid_amount + $4 <= total_amount RETURNING id",
		sql)
	require.Len(t, args, 4)
	assert.Equal(t, docID, args[2])
}
