package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Gateway is implemented by every payment provider adapter.
// Implementations hold only injected config and a transport handle,
// so one instance is shared by all concurrent callers.
type Gateway interface {
	// Method returns the stable identifier used as the resolver key
	Method() string

	// InitiatePayment builds a signed redirect to the provider-hosted payment page
	InitiatePayment(ctx context.Context, req PayRequest) (*PayResponse, error)

	// Refund requests a refund of a completed transaction.
	// Provider rejections and transport failures come back as data;
	// an error is returned only for bad input or an integrity violation.
	Refund(ctx context.Context, req RefundRequest) (*RefundResponse, error)
}

// =====================================================
// REQUEST/RESPONSE TYPES
// =====================================================

// PayRequest request to start a redirect-based payment
type PayRequest struct {
	OrderID   uuid.UUID       // Order being paid
	Amount    decimal.Decimal // Order total in currency units
	IPAddress string          // Customer IP
}

// PayResponse result of InitiatePayment
type PayResponse struct {
	RedirectURL     string // Signed provider URL
	TransactionID   string // Generated transaction reference
	Description     string // Order info sent to the provider
	CreatedDatetime string // Creation timestamp (yyyyMMddHHmmss, provider timezone)
}

// RefundRequest request to refund a prior transaction
type RefundRequest struct {
	TransactionID       string          // Transaction reference used at pay time
	Amount              decimal.Decimal // Amount to refund
	TransactionNo       string          // Provider internal transaction number
	IPAddress           string          // Operator IP
	TransactionDatetime string          // Original transaction timestamp (yyyyMMddHHmmss)
	CreateBy            string          // Actor initiating the refund
}

// Refund failure reasons
const (
	FailureReasonNone             = ""
	FailureReasonProviderRejected = "provider_rejected"
	FailureReasonTransportFailed  = "transport_failed"
)

// RefundResponse outcome of Refund
type RefundResponse struct {
	Success       bool   // Provider confirmed the refund and the reply verified
	ResponseCode  string // Provider response code ("" when no reply)
	Message       string // Provider or transport message
	FailureReason string // One of FailureReason*
	Err           error  `json:"-"` // Transport cause when FailureReason is transport_failed
}

// TransportFailed reports whether the provider could not be reached
func (r *RefundResponse) TransportFailed() bool {
	return r.FailureReason == FailureReasonTransportFailed
}

// =====================================================
// TRANSACTION QUERY (optional capability)
// =====================================================

// TransactionQuerier is implemented by gateways that can report the
// provider-side state of a prior transaction. Operators use it to settle
// a refund whose outcome was lost to a transport failure.
type TransactionQuerier interface {
	QueryTransaction(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}

// QueryRequest request to look up a prior transaction
type QueryRequest struct {
	TransactionID       string // Transaction reference used at pay time
	TransactionDatetime string // Original transaction timestamp (yyyyMMddHHmmss)
	IPAddress           string // Operator IP
}

// QueryResponse outcome of QueryTransaction. Same failure taxonomy as RefundResponse.
type QueryResponse struct {
	Success           bool   // Provider answered "00" and the reply verified
	ResponseCode      string // Provider response code ("" when no reply)
	Message           string
	TransactionNo     string // Provider internal transaction number
	TransactionType   string // "01" payment, "02" full refund, "03" partial refund
	TransactionStatus string // Provider status of the transaction itself
	Amount            string // Minor units as reported by the provider
	PayDate           string
	BankCode          string
	FailureReason     string // One of FailureReason*
	Err               error  `json:"-"` // Transport cause when FailureReason is transport_failed
}

// TransportFailed reports whether the provider could not be reached
func (r *QueryResponse) TransportFailed() bool {
	return r.FailureReason == FailureReasonTransportFailed
}
