package vnpay

import (
	"context"
	"errors"
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

const testSecret = "TESTSECRETKEY"

// transportFunc adapts a function to gateway.Transport
type transportFunc func(ctx context.Context, url string, body interface{}, out interface{}) error

func (f transportFunc) PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	return f(ctx, url, body, out)
}

func testConfig() *Config {
	cfg := NewConfig(
		"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		"https://shop.example/payment/return",
		"TMN00001",
		testSecret,
		"https://sandbox.vnpayment.vn/merchant_webapi/api/transaction",
	)
	return cfg
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func fixedRef(ref string) func() (string, error) {
	return func() (string, error) { return ref, nil }
}

func newTestClient(t *testing.T, transport gateway.Transport, opts ...Option) *Client {
	t.Helper()
	if transport == nil {
		transport = transportFunc(func(context.Context, string, interface{}, interface{}) error {
			t.Fatal("unexpected transport call")
			return nil
		})
	}
	c, err := NewClient(testConfig(), transport, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.HashSecret = ""

	_, err := NewClient(cfg, gateway.NewHTTPTransport(time.Second))
	assert.ErrorIs(t, err, gateway.ErrInvalidConfig)

	cfg = testConfig()
	cfg.PayURL = "not a url"
	_, err = NewClient(cfg, gateway.NewHTTPTransport(time.Second))
	assert.ErrorIs(t, err, gateway.ErrInvalidConfig)

	_, err = NewClient(nil, gateway.NewHTTPTransport(time.Second))
	assert.ErrorIs(t, err, gateway.ErrInvalidConfig)

	_, err = NewClient(testConfig(), nil)
	assert.ErrorIs(t, err, gateway.ErrInvalidConfig)
}

func TestClient_Method(t *testing.T) {
	c := newTestClient(t, nil)
	assert.Equal(t, "vnpay", c.Method())
}

func TestClient_InitiatePayment(t *testing.T) {
	orderID := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	now := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)

	c := newTestClient(t, nil,
		WithClock(fixedClock(now)),
		WithRefGenerator(fixedRef("0123456789abcdef0123456789abcdef")),
	)

	resp, err := c.InitiatePayment(context.Background(), gateway.PayRequest{
		OrderID:   orderID,
		Amount:    decimal.RequireFromString("10.50"),
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)

	assert.Equal(t, "0123456789abcdef0123456789abcdef", resp.TransactionID)
	assert.Equal(t, "Pay for order 3f2504e04f8911d39a0c0305e82c3301", resp.Description)
	assert.NotContains(t, resp.Description, "-")
	assert.Equal(t, "20240115100000", resp.CreatedDatetime)

	base, rawQuery, ok := strings.Cut(resp.RedirectURL, "?")
	require.True(t, ok)
	assert.Equal(t, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html", base)

	values, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)

	assert.Equal(t, "1050", values.Get(FieldAmount))
	assert.Equal(t, "2.1.0", values.Get(FieldVersion))
	assert.Equal(t, "pay", values.Get(FieldCommand))
	assert.Equal(t, "TMN00001", values.Get(FieldTmnCode))
	assert.Equal(t, "VND", values.Get(FieldCurrCode))
	assert.Equal(t, "vn", values.Get(FieldLocale))
	assert.Equal(t, "other", values.Get(FieldOrderType))
	assert.Equal(t, "203.0.113.7", values.Get(FieldIPAddr))
	assert.Equal(t, "https://shop.example/payment/return", values.Get(FieldReturnURL))
	assert.Equal(t, resp.TransactionID, values.Get(FieldTxnRef))
	assert.Equal(t, resp.Description, values.Get(FieldOrderInfo))
	assert.Equal(t, "20240115100000", values.Get(FieldCreateDate))
	assert.Equal(t, "20240115101500", values.Get(FieldExpireDate))
	_, hasBank := values[FieldBankCode]
	assert.False(t, hasBank, "empty bank code must be skipped")

	t.Run("signature covers the canonical query", func(t *testing.T) {
		signed, hash, ok := strings.Cut(rawQuery, "&"+FieldSecureHash+"=")
		require.True(t, ok)
		assert.True(t, Verify(testSecret, signed, hash))
		assert.NotContains(t, signed, FieldSecureHash)
	})
}

func TestClient_InitiatePayment_Amounts(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"10.50", "1050"},
		{"100000", "10000000"},
		{"0.01", "1"},
		{"10.559", "1055"},
		{"1", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestClient_InitiatePayment_ExpiryCrossesMidnight(t *testing.T) {
	// 16:50 UTC is 23:50 in UTC+7
	now := time.Date(2024, 12, 31, 16, 50, 0, 0, time.UTC)
	c := newTestClient(t, nil, WithClock(fixedClock(now)))

	resp, err := c.InitiatePayment(context.Background(), gateway.PayRequest{
		OrderID:   uuid.New(),
		Amount:    decimal.NewFromInt(50000),
		IPAddress: "127.0.0.1",
	})
	require.NoError(t, err)

	values, err := url.ParseQuery(strings.SplitN(resp.RedirectURL, "?", 2)[1])
	require.NoError(t, err)

	created, err := time.ParseInLocation(DateLayout, values.Get(FieldCreateDate), Location)
	require.NoError(t, err)
	expires, err := time.ParseInLocation(DateLayout, values.Get(FieldExpireDate), Location)
	require.NoError(t, err)

	assert.Equal(t, "20241231235000", values.Get(FieldCreateDate))
	assert.Equal(t, "20250101000500", values.Get(FieldExpireDate))
	assert.Equal(t, 15*time.Minute, expires.Sub(created))
}

func TestClient_InitiatePayment_RandomRefs(t *testing.T) {
	c := newTestClient(t, nil)
	req := gateway.PayRequest{OrderID: uuid.New(), Amount: decimal.NewFromInt(1), IPAddress: "127.0.0.1"}

	first, err := c.InitiatePayment(context.Background(), req)
	require.NoError(t, err)
	second, err := c.InitiatePayment(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, first.TransactionID, 32)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestClient_InitiatePayment_RefGeneratorFails(t *testing.T) {
	c := newTestClient(t, nil, WithRefGenerator(func() (string, error) {
		return "", errors.New("entropy exhausted")
	}))

	_, err := c.InitiatePayment(context.Background(), gateway.PayRequest{OrderID: uuid.New(), Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

// =====================================================
// REFUND
// =====================================================

func refundRequest() gateway.RefundRequest {
	return gateway.RefundRequest{
		TransactionID:       "0123456789abcdef0123456789abcdef",
		Amount:              decimal.RequireFromString("10.50"),
		TransactionNo:       "14226112",
		IPAddress:           "10.0.0.5",
		TransactionDatetime: "20240115100000",
		CreateBy:            "admin@shop.example",
	}
}

func signedReply(code string) RefundResponse {
	r := RefundResponse{
		ResponseID:        "resp-1",
		Command:           "refund",
		TmnCode:           "TMN00001",
		TxnRef:            "0123456789abcdef0123456789abcdef",
		Amount:            "1050",
		OrderInfo:         "Refund for transaction 0123456789abcdef0123456789abcdef",
		ResponseCode:      code,
		Message:           "Refund success",
		BankCode:          "NCB",
		PayDate:           "20240116090000",
		TransactionNo:     "14226112",
		TransactionType:   "02",
		TransactionStatus: "05",
	}
	r.SecureHash = Sign(testSecret, PipeString(r.SignedParams()))
	return r
}

func replyWith(r RefundResponse, captured *map[string]string) gateway.Transport {
	return transportFunc(func(_ context.Context, _ string, body interface{}, out interface{}) error {
		if captured != nil {
			*captured = body.(map[string]string)
		}
		*out.(*RefundResponse) = r
		return nil
	})
}

func TestClient_Refund_RequestBody(t *testing.T) {
	now := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)
	var body map[string]string
	var calledURL string

	transport := transportFunc(func(_ context.Context, u string, b interface{}, out interface{}) error {
		calledURL = u
		body = b.(map[string]string)
		*out.(*RefundResponse) = signedReply("00")
		return nil
	})

	c := newTestClient(t, transport,
		WithClock(fixedClock(now)),
		WithRefGenerator(fixedRef("fedcba9876543210fedcba9876543210")),
	)

	_, err := c.Refund(context.Background(), refundRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction", calledURL)
	assert.Equal(t, "fedcba9876543210fedcba9876543210", body[FieldRequestID])
	assert.Equal(t, "refund", body[FieldCommand])
	assert.Equal(t, "02", body[FieldTransactionType])
	assert.Equal(t, "1050", body[FieldAmount])
	assert.Equal(t, "20240116090000", body[FieldCreateDate])
	assert.Equal(t, "Refund for transaction 0123456789abcdef0123456789abcdef", body[FieldOrderInfo])

	expected := strings.Join([]string{
		"fedcba9876543210fedcba9876543210",
		"2.1.0",
		"refund",
		"TMN00001",
		"02",
		"0123456789abcdef0123456789abcdef",
		"1050",
		"14226112",
		"20240115100000",
		"admin@shop.example",
		"20240116090000",
		"10.0.0.5",
		"Refund for transaction 0123456789abcdef0123456789abcdef",
	}, "|")
	assert.Equal(t, Sign(testSecret, expected), body[FieldSecureHash])
}

func TestClient_Refund_SkipsEmptyFieldsInChecksum(t *testing.T) {
	now := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)
	var body map[string]string

	c := newTestClient(t, replyWith(signedReply("00"), &body),
		WithClock(fixedClock(now)),
		WithRefGenerator(fixedRef("req")),
	)

	req := refundRequest()
	req.CreateBy = ""
	_, err := c.Refund(context.Background(), req)
	require.NoError(t, err)

	params := c.refundParams("req", req)
	assert.NotContains(t, PipeString(params), "||")
	assert.Equal(t, Sign(testSecret, PipeString(params)), body[FieldSecureHash])
}

func TestClient_Refund_Outcomes(t *testing.T) {
	t.Run("verified success", func(t *testing.T) {
		c := newTestClient(t, replyWith(signedReply("00"), nil))

		resp, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "00", resp.ResponseCode)
		assert.Equal(t, "Refund success", resp.Message)
		assert.Equal(t, gateway.FailureReasonNone, resp.FailureReason)
	})

	t.Run("uppercase hash still verifies", func(t *testing.T) {
		reply := signedReply("00")
		reply.SecureHash = strings.ToUpper(reply.SecureHash)
		c := newTestClient(t, replyWith(reply, nil))

		resp, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("tampered success raises integrity error", func(t *testing.T) {
		reply := signedReply("00")
		reply.Amount = "999999"
		c := newTestClient(t, replyWith(reply, nil))

		resp, err := c.Refund(context.Background(), refundRequest())
		assert.Nil(t, resp)
		require.Error(t, err)
		assert.ErrorIs(t, err, gateway.ErrIntegrityViolation)

		var integrityErr *gateway.IntegrityError
		require.True(t, errors.As(err, &integrityErr))
		assert.Equal(t, "vnpay", integrityErr.Method)
		assert.Equal(t, "0123456789abcdef0123456789abcdef", integrityErr.TxnRef)
	})

	t.Run("missing hash on success raises integrity error", func(t *testing.T) {
		reply := signedReply("00")
		reply.SecureHash = ""
		c := newTestClient(t, replyWith(reply, nil))

		_, err := c.Refund(context.Background(), refundRequest())
		assert.ErrorIs(t, err, gateway.ErrIntegrityViolation)
	})

	t.Run("rejection skips verification", func(t *testing.T) {
		reply := signedReply("94")
		reply.SecureHash = "garbage"
		reply.Message = ""
		c := newTestClient(t, replyWith(reply, nil))

		resp, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "94", resp.ResponseCode)
		assert.Equal(t, ResponseMessage("94"), resp.Message)
		assert.Equal(t, gateway.FailureReasonProviderRejected, resp.FailureReason)
		assert.False(t, resp.TransportFailed())
	})

	t.Run("missing response code is a rejection", func(t *testing.T) {
		c := newTestClient(t, replyWith(RefundResponse{}, nil))

		resp, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "", resp.ResponseCode)
		assert.Equal(t, gateway.FailureReasonProviderRejected, resp.FailureReason)
	})

	t.Run("transport failure is reported, not raised", func(t *testing.T) {
		transport := transportFunc(func(context.Context, string, interface{}, interface{}) error {
			return errors.New("connection refused")
		})
		c := newTestClient(t, transport)

		resp, err := c.Refund(context.Background(), refundRequest())
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.True(t, resp.TransportFailed())
		assert.Equal(t, gateway.FailureReasonTransportFailed, resp.FailureReason)
		assert.ErrorIs(t, resp.Err, gateway.ErrTransport)
		assert.Contains(t, resp.Message, "connection refused")
	})
}

func TestResponseMessage(t *testing.T) {
	assert.Equal(t, "Giao dịch thành công", ResponseMessage("00"))
	assert.Equal(t, "Checksum không hợp lệ", ResponseMessage("97"))
	assert.Equal(t, "Lỗi không xác định", ResponseMessage("ZZ"))
}

func TestVerifyRefundResponse_FieldOrder(t *testing.T) {
	r := signedReply("00")

	keys := r.SignedParams().Keys()
	assert.Equal(t, []string{
		FieldResponseID, FieldCommand, FieldResponseCode, FieldMessage, FieldTmnCode,
		FieldTxnRef, FieldAmount, FieldBankCode, FieldPayDate, FieldTransactionNo,
		FieldTransactionType, FieldTransactionStatus, FieldOrderInfo,
	}, keys)
	assert.True(t, VerifyRefundResponse(testSecret, &r))
	assert.False(t, VerifyRefundResponse("wrong", &r))
}
