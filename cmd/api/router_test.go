package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-gateway/internal/config"
	"payment-gateway/pkg/container"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *container.Container) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		App:     config.AppConfig{Name: "payment-gateway", Environment: "test", Version: "test"},
		Log:     config.LogConfig{Level: "error"},
		Redis:   config.RedisConfig{Host: mr.Addr()},
		JWT:     config.JWTConfig{Secret: "secret", Issuer: "payment-gateway", AccessTokenExpiry: 60},
		Payment: config.PaymentConfig{MockEnabled: true, MockReturnURL: "https://shop.example/return", RefundLockTTL: time.Minute},
	}

	c, err := container.NewContainerWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	return SetupRouter(c), c
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CreatePaymentWithMock(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{
		"method":   "mock",
		"order_id": "123e4567-e89b-12d3-a456-426614174000",
		"amount":   "10.50",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mock-payment.local")
}

func TestRouter_RefundRequiresAdmin(t *testing.T) {
	router, c := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/payments/refunds", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := c.JWTManager.GenerateAccessToken("u1", "user@example.com", "user")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/payments/refunds", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_QueryTransactionUnsupportedByMock(t *testing.T) {
	router, c := newTestRouter(t)

	token, err := c.JWTManager.GenerateAccessToken("u1", "ops@example.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/admin/payments/mock/transactions/abc?transaction_date=20240115100000", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PAY005")
}
