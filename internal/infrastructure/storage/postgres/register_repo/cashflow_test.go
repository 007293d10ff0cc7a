package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/domain"
	"storedesk/internal/domain/cashflow"
)

func TestListQuery_DirectionFilter(t *testing.T) {
	sql, args, err := listQuery([]string{"id", "amount"}, domain.DocumentFilter{
		Status: string(cashflow.DirectionDisbursement),
		Search: "PN-2026",
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, amount FROM reg_cashflow WHERE direction = $1 AND "+
			"(document_number ILIKE $2 OR partner_name ILIKE $3 OR note ILIKE $4)",
		sql)
	assert.Equal(t, []any{"chi", "%PN-2026%", "%PN-2026%", "%PN-2026%"}, args)
}
