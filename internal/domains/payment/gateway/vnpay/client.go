package vnpay

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"payment-gateway/internal/domains/payment/gateway"
)

// =====================================================
// VNPAY CLIENT
// =====================================================

type Client struct {
	config    *Config
	transport gateway.Transport

	now    func() time.Time
	newRef func() (string, error)
}

// Option customizes a Client
type Option func(*Client)

// WithClock overrides the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithRefGenerator overrides transaction reference generation (tests)
func WithRefGenerator(newRef func() (string, error)) Option {
	return func(c *Client) { c.newRef = newRef }
}

func NewClient(config *Config, transport gateway.Transport, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: vnpay config is nil", gateway.ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: vnpay: %v", gateway.ErrInvalidConfig, err)
	}
	if transport == nil {
		return nil, fmt.Errorf("%w: vnpay transport is nil", gateway.ErrInvalidConfig)
	}

	c := &Client{
		config:    config,
		transport: transport,
		now:       time.Now,
		newRef:    NewTransactionRef,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Method() string {
	return MethodName
}

// =====================================================
// INITIATE PAYMENT
// =====================================================

// InitiatePayment builds the signed redirect to the VNPay payment page.
// It is purely local; nothing is sent to the provider.
func (c *Client) InitiatePayment(ctx context.Context, req gateway.PayRequest) (*gateway.PayResponse, error) {
	txnRef, err := c.newRef()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction ref: %w", err)
	}

	createdAt := c.now().In(Location)
	createDate := createdAt.Format(DateLayout)
	expireDate := createdAt.Add(PaymentExpiry).Format(DateLayout)
	orderInfo := PayOrderInfo(req.OrderID.String())

	params := NewParams()
	params.Set(FieldVersion, c.config.Version)
	params.Set(FieldCommand, CommandPay)
	params.Set(FieldTmnCode, c.config.TmnCode)
	params.Set(FieldAmount, FormatAmount(req.Amount))
	params.Set(FieldCurrCode, c.config.CurrCode)
	params.Set(FieldBankCode, c.config.BankCode)
	params.Set(FieldTxnRef, txnRef)
	params.Set(FieldIPAddr, req.IPAddress)
	params.Set(FieldLocale, c.config.Locale)
	params.Set(FieldOrderInfo, orderInfo)
	params.Set(FieldOrderType, c.config.OrderType)
	params.Set(FieldReturnURL, c.config.ReturnURL)
	params.Set(FieldCreateDate, createDate)
	params.Set(FieldExpireDate, expireDate)

	redirectURL := BuildPaymentURL(c.config.PayURL, params, c.config.HashSecret)

	log.Debug().
		Str("gateway", MethodName).
		Str("txn_ref", txnRef).
		Str("amount", params.Get(FieldAmount)).
		Str("expire_date", expireDate).
		Msg("vnpay payment url created")

	return &gateway.PayResponse{
		RedirectURL:     redirectURL,
		TransactionID:   txnRef,
		Description:     orderInfo,
		CreatedDatetime: createDate,
	}, nil
}

// =====================================================
// REFUND
// =====================================================

func (c *Client) Refund(ctx context.Context, req gateway.RefundRequest) (*gateway.RefundResponse, error) {
	requestID, err := c.newRef()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %w", err)
	}

	params := c.refundParams(requestID, req)
	secureHash := Sign(c.config.HashSecret, PipeString(params))

	body := params.Map()
	body[FieldSecureHash] = secureHash

	log.Info().
		Str("gateway", MethodName).
		Str("request_id", requestID).
		Str("txn_ref", req.TransactionID).
		Str("transaction_no", req.TransactionNo).
		Str("amount", params.Get(FieldAmount)).
		Str("create_by", req.CreateBy).
		Msg("sending vnpay refund request")

	var resp RefundResponse
	if err := c.transport.PostJSON(ctx, c.config.APIURL, body, &resp); err != nil {
		log.Error().Err(err).
			Str("gateway", MethodName).
			Str("txn_ref", req.TransactionID).
			Msg("vnpay refund request failed")

		if !errors.Is(err, gateway.ErrTransport) {
			err = fmt.Errorf("%w: %v", gateway.ErrTransport, err)
		}
		return &gateway.RefundResponse{
			Success:       false,
			Message:       err.Error(),
			FailureReason: gateway.FailureReasonTransportFailed,
			Err:           err,
		}, nil
	}

	message := resp.Message
	if message == "" {
		message = ResponseMessage(resp.ResponseCode)
	}

	if resp.ResponseCode != ResponseCodeSuccess {
		log.Warn().
			Str("gateway", MethodName).
			Str("txn_ref", req.TransactionID).
			Str("response_code", resp.ResponseCode).
			Str("message", message).
			Msg("vnpay refund rejected")

		return &gateway.RefundResponse{
			Success:       false,
			ResponseCode:  resp.ResponseCode,
			Message:       message,
			FailureReason: gateway.FailureReasonProviderRejected,
		}, nil
	}

	if !VerifyRefundResponse(c.config.HashSecret, &resp) {
		log.Error().
			Bool("security", true).
			Str("gateway", MethodName).
			Str("txn_ref", req.TransactionID).
			Str("response_id", resp.ResponseID).
			Msg("vnpay refund response hash mismatch")

		return nil, &gateway.IntegrityError{Method: MethodName, TxnRef: req.TransactionID}
	}

	log.Info().
		Str("gateway", MethodName).
		Str("txn_ref", req.TransactionID).
		Str("response_id", resp.ResponseID).
		Msg("vnpay refund succeeded")

	return &gateway.RefundResponse{
		Success:       true,
		ResponseCode:  resp.ResponseCode,
		Message:       message,
		FailureReason: gateway.FailureReasonNone,
	}, nil
}

// =====================================================
// QUERY TRANSACTION (querydr)
// =====================================================

// QueryTransaction asks the provider for the current state of a prior
// transaction. Outcomes follow Refund: rejections and transport failures
// are data, a "00" reply with a bad hash is an *IntegrityError.
func (c *Client) QueryTransaction(ctx context.Context, req gateway.QueryRequest) (*gateway.QueryResponse, error) {
	requestID, err := c.newRef()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request id: %w", err)
	}

	params := c.queryParams(requestID, req)
	body := params.Map()
	body[FieldSecureHash] = Sign(c.config.HashSecret, PipeString(params))

	log.Info().
		Str("gateway", MethodName).
		Str("request_id", requestID).
		Str("txn_ref", req.TransactionID).
		Msg("sending vnpay querydr request")

	var resp QueryResponse
	if err := c.transport.PostJSON(ctx, c.config.APIURL, body, &resp); err != nil {
		log.Error().Err(err).
			Str("gateway", MethodName).
			Str("txn_ref", req.TransactionID).
			Msg("vnpay querydr request failed")

		if !errors.Is(err, gateway.ErrTransport) {
			err = fmt.Errorf("%w: %v", gateway.ErrTransport, err)
		}
		return &gateway.QueryResponse{
			Message:       err.Error(),
			FailureReason: gateway.FailureReasonTransportFailed,
			Err:           err,
		}, nil
	}

	message := resp.Message
	if message == "" {
		message = ResponseMessage(resp.ResponseCode)
	}

	if resp.ResponseCode != ResponseCodeSuccess {
		log.Warn().
			Str("gateway", MethodName).
			Str("txn_ref", req.TransactionID).
			Str("response_code", resp.ResponseCode).
			Msg("vnpay querydr rejected")

		return &gateway.QueryResponse{
			ResponseCode:  resp.ResponseCode,
			Message:       message,
			FailureReason: gateway.FailureReasonProviderRejected,
		}, nil
	}

	if !VerifyQueryResponse(c.config.HashSecret, &resp) {
		log.Error().
			Bool("security", true).
			Str("gateway", MethodName).
			Str("txn_ref", req.TransactionID).
			Str("response_id", resp.ResponseID).
			Msg("vnpay querydr response hash mismatch")

		return nil, &gateway.IntegrityError{Method: MethodName, TxnRef: req.TransactionID}
	}

	return &gateway.QueryResponse{
		Success:           true,
		ResponseCode:      resp.ResponseCode,
		Message:           message,
		TransactionNo:     resp.TransactionNo,
		TransactionType:   resp.TransactionType,
		TransactionStatus: resp.TransactionStatus,
		Amount:            resp.Amount,
		PayDate:           resp.PayDate,
		BankCode:          resp.BankCode,
		FailureReason:     gateway.FailureReasonNone,
	}, nil
}

// queryParams assembles the querydr request fields in checksum order
func (c *Client) queryParams(requestID string, req gateway.QueryRequest) *Params {
	params := NewParams()
	params.Set(FieldRequestID, requestID)
	params.Set(FieldVersion, c.config.Version)
	params.Set(FieldCommand, CommandQueryDR)
	params.Set(FieldTmnCode, c.config.TmnCode)
	params.Set(FieldTxnRef, req.TransactionID)
	params.Set(FieldTransactionDate, req.TransactionDatetime)
	params.Set(FieldCreateDate, c.now().In(Location).Format(DateLayout))
	params.Set(FieldIPAddr, req.IPAddress)
	params.Set(FieldOrderInfo, QueryOrderInfo(req.TransactionID))
	return params
}

// refundParams assembles the refund request fields in checksum order
func (c *Client) refundParams(requestID string, req gateway.RefundRequest) *Params {
	params := NewParams()
	params.Set(FieldRequestID, requestID)
	params.Set(FieldVersion, c.config.Version)
	params.Set(FieldCommand, CommandRefund)
	params.Set(FieldTmnCode, c.config.TmnCode)
	params.Set(FieldTransactionType, TransactionTypeRefund)
	params.Set(FieldTxnRef, req.TransactionID)
	params.Set(FieldAmount, FormatAmount(req.Amount))
	params.Set(FieldTransactionNo, req.TransactionNo)
	params.Set(FieldTransactionDate, req.TransactionDatetime)
	params.Set(FieldCreateBy, req.CreateBy)
	params.Set(FieldCreateDate, c.now().In(Location).Format(DateLayout))
	params.Set(FieldIPAddr, req.IPAddress)
	params.Set(FieldOrderInfo, RefundOrderInfo(req.TransactionID))
	return params
}

// =====================================================
// HELPERS
// =====================================================

// FormatAmount converts currency units to VNPay minor units (x100, truncated)
// Example: 10.50 -> "1050"
func FormatAmount(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(100)).Truncate(0).StringFixed(0)
}

// PayOrderInfo derives the order description from an order id, without separators
func PayOrderInfo(orderID string) string {
	return "Pay for order " + strings.ReplaceAll(orderID, "-", "")
}

// RefundOrderInfo derives the refund description from a transaction ref
func RefundOrderInfo(txnRef string) string {
	return "Refund for transaction " + txnRef
}

// QueryOrderInfo derives the querydr description from a transaction ref
func QueryOrderInfo(txnRef string) string {
	return "Query transaction " + txnRef
}

// NewTransactionRef returns 16 random bytes as 32 lowercase hex characters
func NewTransactionRef() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var (
	_ gateway.Gateway            = (*Client)(nil)
	_ gateway.TransactionQuerier = (*Client)(nil)
)
