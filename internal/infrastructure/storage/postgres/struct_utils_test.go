package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storedesk/internal/core/entity"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/quote"
)

type mockProduct struct {
	entity.BaseEntity
	Name  string      `db:"name"`
	Price types.Money `db:"price"`
	Tags  []string    `db:"-"`
	Notes string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[mockProduct]()

	assert.Equal(t, []string{"id", "deletion_mark", "version", "created_at", "updated_at", "name", "price"}, cols)
}

func TestExtractDBColumns_DocumentSkipsLines(t *testing.T) {
	cols := ExtractDBColumns[quote.Quote]()

	for _, expected := range []string{"id", "number", "doc_date", "customer_id", "customer_name", "final_amount", "status", "order_id"} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "items")
}

func TestStructToMap_NestedEmbedding(t *testing.T) {
	customerID := id.New()
	expiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	q := quote.NewQuote()
	q.Number = "BG-2026-00001"
	q.CustomerRef = documents.CustomerRef{CustomerID: &customerID, Name: "Chị Lan"}
	q.Items = documents.Lines{{ProductID: id.New(), Quantity: 1, Price: types.NewMoneyFromInt(10)}}
	q.FinalAmount = types.NewMoneyFromInt(10)
	q.ExpiryDate = &expiry

	m := StructToMap(q)

	assert.Equal(t, q.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "BG-2026-00001", m["number"])
	assert.Equal(t, &customerID, m["customer_id"])
	assert.Equal(t, "Chị Lan", m["customer_name"])
	assert.Equal(t, quote.StatusNew, m["status"])
	assert.Equal(t, &expiry, m["expiry_date"])
	assert.True(t, types.NewMoneyFromInt(10).Equal(m["final_amount"].(types.Money)))
	assert.NotContains(t, m, "items")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

type AuditTrail struct {
	Author string `db:"author"`
}

type trailedRow struct {
	ID string `db:"id"`
	*AuditTrail
}

func TestStructToMap_NilEmbeddedPointer(t *testing.T) {
	m := StructToMap(trailedRow{ID: "a"})

	assert.Equal(t, map[string]any{"id": "a"}, m)
	assert.Equal(t, []string{"id", "author"}, ExtractDBColumns[trailedRow]())

	m = StructToMap(&trailedRow{ID: "b", AuditTrail: &AuditTrail{Author: "Chị Lan"}})
	assert.Equal(t, map[string]any{"id": "b", "author": "Chị Lan"}, m)
}

func TestColumnValue(t *testing.T) {
	q := quote.NewQuote()
	q.Number = "BG-2026-00007"

	v, ok := ColumnValue(q, "id")
	assert.True(t, ok)
	assert.Equal(t, q.ID, v)

	v, ok = ColumnValue(q, "number")
	assert.True(t, ok)
	assert.Equal(t, "BG-2026-00007", v)

	_, ok = ColumnValue(q, "items")
	assert.False(t, ok)

	_, ok = ColumnValue((*quote.Quote)(nil), "id")
	assert.False(t, ok)

	_, ok = ColumnValue(trailedRow{}, "author")
	assert.False(t, ok, "nil embedded pointer has no value")
}
