package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/id"
	"storedesk/internal/domain"
)

func TestListQuery_SearchAndDeletion(t *testing.T) {
	repo := NewBaseCatalogRepo[any](nil, "test_table", "test", []string{"id", "name", "sku"}, []string{"name", "sku"}, func() any { return nil })

	tests := []struct {
		name     string
		filter   domain.ListFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "live rows only",
			filter:   domain.ListFilter{},
			wantSQL:  "SELECT id, name, sku FROM test_table WHERE deletion_mark = $1",
			wantArgs: []any{false},
		},
		{
			name:     "search spans columns",
			filter:   domain.ListFilter{Search: "  ốc vít "},
			wantSQL:  "SELECT id, name, sku FROM test_table WHERE deletion_mark = $1 AND (name ILIKE $2 OR sku ILIKE $3)",
			wantArgs: []any{false, "%ốc vít%", "%ốc vít%"},
		},
		{
			name:     "include deleted",
			filter:   domain.ListFilter{IncludeDeleted: true},
			wantSQL:  "SELECT id, name, sku FROM test_table",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestDecreaseStockQuery_Guarded(t *testing.T) {
	productID := id.New()

	sql, args, err := decreaseStockQuery(productID, 3).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE cat_products SET stock = stock - $1, updated_at = now() WHERE deletion_mark = $2 AND id = $3 AND stock >= $4 RETURNING stock",
		sql)
	assert.Equal(t, []any{int64(3), false, productID, int64(3)}, args)
}
