package mock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"payment-gateway/internal/domains/payment/gateway"
)

// =====================================================
// MOCK GATEWAY FOR DEVELOPMENT AND TESTING
// =====================================================

const (
	MethodName = "mock"

	baseURL = "https://mock-payment.local/pay"

	ResponseCodeSuccess  = "00"
	ResponseCodeRejected = "99"

	// DateLayout matches the provider timestamp format (yyyyMMddHHmmss)
	DateLayout = "20060102150405"
)

// Location pins timestamps to UTC+7 like the real provider
var Location = time.FixedZone("GMT+7", 7*60*60)

type Gateway struct {
	returnURL          string
	shouldFailPayment  bool
	shouldRejectRefund bool
	now                func() time.Time
}

type Option func(*Gateway)

// WithFailPayment makes InitiatePayment return an error
func WithFailPayment() Option {
	return func(g *Gateway) { g.shouldFailPayment = true }
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithRejectRefund makes Refund report a provider rejection
func WithRejectRefund() Option {
	return func(g *Gateway) { g.shouldRejectRefund = true }
}

func NewGateway(returnURL string, opts ...Option) *Gateway {
	g := &Gateway{returnURL: returnURL, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Method() string {
	return MethodName
}

func (g *Gateway) InitiatePayment(ctx context.Context, req gateway.PayRequest) (*gateway.PayResponse, error) {
	if g.shouldFailPayment {
		return nil, fmt.Errorf("mock payment creation failed")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate transaction ref: %w", err)
	}
	txnRef := hex.EncodeToString(b)

	q := url.Values{}
	q.Set("txnRef", txnRef)
	q.Set("amount", req.Amount.StringFixed(2))
	q.Set("returnUrl", g.returnURL)

	return &gateway.PayResponse{
		RedirectURL:     baseURL + "?" + q.Encode(),
		TransactionID:   txnRef,
		Description:     "Mock payment for order " + strings.ReplaceAll(req.OrderID.String(), "-", ""),
		CreatedDatetime: g.now().In(Location).Format(DateLayout),
	}, nil
}

func (g *Gateway) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResponse, error) {
	if g.shouldRejectRefund {
		return &gateway.RefundResponse{
			Success:       false,
			ResponseCode:  ResponseCodeRejected,
			Message:       "Mock refund rejected",
			FailureReason: gateway.FailureReasonProviderRejected,
		}, nil
	}

	return &gateway.RefundResponse{
		Success:       true,
		ResponseCode:  ResponseCodeSuccess,
		Message:       "Mock refund success",
		FailureReason: gateway.FailureReasonNone,
	}, nil
}

var _ gateway.Gateway = (*Gateway)(nil)
