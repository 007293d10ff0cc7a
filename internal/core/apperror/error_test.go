package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrappedCodeSurvives(t *testing.T) {
	base := NewInsufficientStock("p-1", 5, 1)
	wrapped := fmt.Errorf("export order: %w", base)

	assert.True(t, IsInsufficientStock(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(wrapped))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(1), appErr.Details["available"])
}

func TestAppError_ErrorString(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.Contains(t, err.Error(), CodeInternal)
	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}

func TestTaxonomyStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewFieldValidation("amount", "amount must be positive"), http.StatusBadRequest},
		{"not found", NewNotFound("invoice", "x"), http.StatusNotFound},
		{"invalid state", NewInvalidState("order", "Hủy", "order is cancelled"), http.StatusConflict},
		{"insufficient stock", NewInsufficientStock("p", 2, 1), http.StatusUnprocessableEntity},
		{"integrity", NewIntegrity("customer debt would become negative"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestWithDetail_InitialisesMap(t *testing.T) {
	err := &AppError{Code: CodeValidation}
	err.WithDetail("field", "items")
	assert.Equal(t, "items", err.Details["field"])
}
