package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storedesk/internal/config"
	"storedesk/internal/domain/auth"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T, mutate ...func(*config.Config)) *apiClient {
	t.Helper()
	cfg := &config.Config{
		App:           config.AppConfig{Env: "test"},
		StorageDriver: config.DriverMemory,
	}
	for _, m := range mutate {
		m(cfg)
	}
	backend := NewMemoryBackend()
	t.Cleanup(backend.Close)
	router, err := NewRouter(cfg, backend, nil)
	require.NoError(t, err)
	return &apiClient{t: t, router: router}
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (c *apiClient) mustCreate(path string, body any) map[string]any {
	c.t.Helper()
	status, out := c.do(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, status, "%v", out)
	return out
}

func sub(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = api.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", sub(body, "checks")[config.DriverMemory])
}

func TestSalesFlow_QuoteToPaidInvoice(t *testing.T) {
	api := newTestAPI(t)

	product := api.mustCreate("/api/v1/products", map[string]any{
		"name": "Nồi cơm điện", "sku": "NCD-01", "unit": "cái", "price": 100000, "stock": 5,
	})
	customer := api.mustCreate("/api/v1/customers", map[string]any{
		"name": "Lê Văn Cường", "phone": "0909123456",
	})
	assert.Equal(t, "0", customer["debt"])

	quote := api.mustCreate("/api/v1/quotes", map[string]any{
		"customerId": customer["id"],
		"items":      []map[string]any{{"productId": product["id"], "quantity": 2, "price": 100000}},
	})
	assert.Equal(t, "Mới", quote["status"])
	assert.Regexp(t, `^BG-\d{4}-00001$`, quote["number"])
	assert.Equal(t, "200000", quote["finalAmount"])
	assert.Equal(t, "Lê Văn Cường", quote["customerName"])

	converted := api.mustCreate("/api/v1/quotes/"+quote["id"].(string)+"/to-order", nil)
	order := sub(converted, "order")
	assert.Equal(t, "Đã chốt", sub(converted, "quote")["status"])
	assert.Equal(t, "Mới", order["status"])
	assert.Equal(t, quote["id"], order["quoteId"])

	status, body := api.do(http.MethodPost, "/api/v1/quotes/"+quote["id"].(string)+"/to-order", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_STATE", body["code"])

	exported := api.mustCreate("/api/v1/orders/"+order["id"].(string)+"/to-invoice", map[string]any{
		"paymentAmount": 150000,
	})
	invoice := sub(exported, "invoice")
	assert.Equal(t, "200000", invoice["totalAmount"])
	assert.Equal(t, "150000", invoice["paidAmount"])
	assert.Equal(t, "50000", invoice["debt"])
	assert.Equal(t, "Thanh toán một phần", invoice["paymentStatus"])
	assert.Equal(t, "50000", exported["customerDebt"])
	assert.Equal(t, "Hoàn thành", sub(exported, "order")["status"])

	_, p := api.do(http.MethodGet, "/api/v1/products/"+product["id"].(string), nil)
	assert.Equal(t, float64(3), p["stock"])

	invoicePath := "/api/v1/invoices/" + invoice["id"].(string)
	status, body = api.do(http.MethodPost, invoicePath+"/payment", map[string]any{"amount": 60000})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "amount", sub(body, "details")["field"])

	status, body = api.do(http.MethodPost, invoicePath+"/payment", map[string]any{"amount": 50000, "updateDebt": true})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "Đã thanh toán", sub(body, "invoice")["paymentStatus"])
	assert.Equal(t, "0", body["customerDebt"])

	status, body = api.do(http.MethodGet, "/api/v1/invoices?status="+url.QueryEscape("Đã thanh toán"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["totalCount"])
	assert.Equal(t, "200000", sub(body, "stats")["paidAmount"])

	status, body = api.do(http.MethodGet, "/api/v1/cashflow", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["totalCount"])
}

func TestExport_InsufficientStockRollsBack(t *testing.T) {
	api := newTestAPI(t)

	product := api.mustCreate("/api/v1/products", map[string]any{"name": "Quạt bàn", "price": 300000, "stock": 1})
	order := api.mustCreate("/api/v1/orders", map[string]any{
		"customerName": "Khách vãng lai",
		"items":        []map[string]any{{"productId": product["id"], "quantity": 2, "price": 300000}},
	})

	status, body := api.do(http.MethodPost, "/api/v1/orders/"+order["id"].(string)+"/to-invoice", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	_, o := api.do(http.MethodGet, "/api/v1/orders/"+order["id"].(string), nil)
	assert.Equal(t, "Mới", o["status"])
	_, p := api.do(http.MethodGet, "/api/v1/products/"+product["id"].(string), nil)
	assert.Equal(t, float64(1), p["stock"])

	_, list := api.do(http.MethodGet, "/api/v1/invoices", nil)
	assert.Equal(t, float64(0), list["totalCount"])
}

func TestValidationErrors(t *testing.T) {
	api := newTestAPI(t)
	product := api.mustCreate("/api/v1/products", map[string]any{"name": "Ấm siêu tốc", "price": 250000, "stock": 3})

	tests := []struct {
		name  string
		path  string
		body  map[string]any
		field string
	}{
		{
			name:  "debt on customer create",
			path:  "/api/v1/customers",
			body:  map[string]any{"name": "A", "debt": 1000},
			field: "debt",
		},
		{
			name:  "malformed phone",
			path:  "/api/v1/suppliers",
			body:  map[string]any{"name": "B", "phone": "abc"},
			field: "phone",
		},
		{
			name: "delivery without address",
			path: "/api/v1/orders",
			body: map[string]any{
				"items":        []map[string]any{{"productId": product["id"], "quantity": 1, "price": 250000}},
				"deliveryInfo": map[string]any{"isDelivery": true, "phone": "0909000111"},
			},
			field: "deliveryInfo.address",
		},
		{
			name: "zero quantity",
			path: "/api/v1/quotes",
			body: map[string]any{
				"items": []map[string]any{{"productId": product["id"], "quantity": 0, "price": 250000}},
			},
			field: "items[0].quantity",
		},
		{
			name: "unknown product",
			path: "/api/v1/quotes",
			body: map[string]any{
				"items": []map[string]any{{"productId": "0190c5f4-0000-7000-8000-000000000000", "quantity": 1, "price": 1}},
			},
			field: "items[0].productId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
			assert.Equal(t, tt.field, sub(body, "details")["field"])
		})
	}

	// Counter pickup needs no address.
	api.mustCreate("/api/v1/orders", map[string]any{
		"items":        []map[string]any{{"productId": product["id"], "quantity": 1, "price": 250000}},
		"deliveryInfo": map[string]any{"isDelivery": false},
	})
}

func TestCustomerDebtOverride(t *testing.T) {
	api := newTestAPI(t)
	customer := api.mustCreate("/api/v1/customers", map[string]any{"name": "Phạm Thị Dung"})
	path := "/api/v1/customers/" + customer["id"].(string)

	status, body := api.do(http.MethodPut, path, map[string]any{
		"name": "Phạm Thị Dung", "debt": 120000, "debtReason": "opening balance",
	})
	require.Equal(t, http.StatusOK, status, "%v", body)
	assert.Equal(t, "120000", body["debt"])

	status, body = api.do(http.MethodGet, path+"/debt-adjustments", nil)
	require.Equal(t, http.StatusOK, status)
	items, _ := body["items"].([]any)
	require.Len(t, items, 1)
	adj := items[0].(map[string]any)
	assert.Equal(t, "opening balance", adj["reason"])
	assert.Equal(t, "120000", adj["delta"])
}

func TestQuoteDelete_ThenNotFound(t *testing.T) {
	api := newTestAPI(t)
	product := api.mustCreate("/api/v1/products", map[string]any{"name": "Bàn ủi", "price": 180000, "stock": 2})
	quote := api.mustCreate("/api/v1/quotes", map[string]any{
		"items": []map[string]any{{"productId": product["id"], "quantity": 1, "price": 180000}},
	})
	path := "/api/v1/quotes/" + quote["id"].(string)

	status, _ := api.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body := api.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestInvalidIDAndDateFilter(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "id", sub(body, "details")["field"])

	status, body = api.do(http.MethodGet, "/api/v1/orders?from=2026-13-01", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "from", sub(body, "details")["field"])
}

func TestAuth(t *testing.T) {
	const secret = "s3cret"
	api := newTestAPI(t, func(c *config.Config) { c.Auth.JWTSecret = secret })

	status, body := api.do(http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, _ = api.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u-7",
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	api.token = token

	status, body = api.do(http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["totalCount"])
}
