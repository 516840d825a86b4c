package mock

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment-gateway/internal/domains/payment/gateway"
)

func TestGateway_InitiatePayment(t *testing.T) {
	g := NewGateway("https://shop.example/return")
	assert.Equal(t, "mock", g.Method())

	resp, err := g.InitiatePayment(context.Background(), gateway.PayRequest{
		OrderID: uuid.New(),
		Amount:  decimal.RequireFromString("10.5"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.TransactionID, 32)

	base, raw, ok := strings.Cut(resp.RedirectURL, "?")
	require.True(t, ok)
	assert.Equal(t, baseURL, base)

	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	assert.Equal(t, resp.TransactionID, q.Get("txnRef"))
	assert.Equal(t, "10.50", q.Get("amount"))
	assert.Equal(t, "https://shop.example/return", q.Get("returnUrl"))
}

func TestGateway_Options(t *testing.T) {
	g := NewGateway("", WithFailPayment(), WithRejectRefund())

	_, err := g.InitiatePayment(context.Background(), gateway.PayRequest{OrderID: uuid.New(), Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)

	resp, err := g.Refund(context.Background(), gateway.RefundRequest{TransactionID: "abc"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, gateway.FailureReasonProviderRejected, resp.FailureReason)
}

func TestGateway_Refund(t *testing.T) {
	resp, err := NewGateway("").Refund(context.Background(), gateway.RefundRequest{TransactionID: "abc"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, ResponseCodeSuccess, resp.ResponseCode)
}

func TestGateway_InitiatePayment_DescriptionAndTimezone(t *testing.T) {
	now := time.Date(2024, 1, 15, 20, 30, 0, 0, time.UTC)
	g := NewGateway("https://shop.example/return", WithClock(func() time.Time { return now }))

	resp, err := g.InitiatePayment(context.Background(), gateway.PayRequest{
		OrderID: uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301"),
		Amount:  decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "Mock payment for order 3f2504e04f8911d39a0c0305e82c3301", resp.Description)
	assert.NotContains(t, resp.Description, "-")
	assert.Equal(t, "20240116033000", resp.CreatedDatetime)
}
