package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/core/apperror"
	"storedesk/internal/domain"
)

func TestDocumentListQuery_ToFilter(t *testing.T) {
	q := DocumentListQuery{
		PaginationRequest: PaginationRequest{Page: 3, PageSize: 10},
		Status:            " Mới ",
		From:              "2026-03-01",
		To:                "2026-03-31",
		SupplierID:        "0190c5f4-0000-7000-8000-000000000001",
	}

	f, err := q.ToFilter()
	require.NoError(t, err)

	assert.Equal(t, "Mới", f.Status)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), *f.DateTo)
	require.NotNil(t, f.PartnerID)
	assert.Equal(t, q.SupplierID, f.PartnerID.String())
}

func TestDocumentListQuery_RFC3339To(t *testing.T) {
	f, err := DocumentListQuery{To: "2026-03-31T10:00:00+07:00"}.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 31, 3, 0, 0, 0, time.UTC), *f.DateTo)
	assert.Equal(t, domain.DefaultLimit, f.Limit)
}

func TestDocumentListQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query DocumentListQuery
		field string
	}{
		{"bad from", DocumentListQuery{From: "01/03/2026"}, "from"},
		{"bad to", DocumentListQuery{To: "yesterday"}, "to"},
		{"to before from", DocumentListQuery{From: "2026-03-02", To: "2026-03-01"}, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.query.ToFilter()
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}
