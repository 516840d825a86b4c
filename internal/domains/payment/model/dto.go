package model

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-gateway/internal/domains/payment/gateway"
)

var providerDatetime = regexp.MustCompile(`^\d{14}$`)

// minAmount is one minor unit; smaller amounts convert to 0 on the wire
var minAmount = decimal.New(1, -2)

// =====================================================
// CREATE PAYMENT REQUEST/RESPONSE
// =====================================================

type CreatePaymentRequest struct {
	Method  string          `json:"method" binding:"required"`
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

func (r CreatePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Method, validation.Required.Error("method is required")),
		validation.Field(&r.OrderID, validation.By(requiredUUID)),
		validation.Field(&r.Amount, validation.By(positiveAmount)),
	)
}

// ToGatewayRequest converts the DTO for the adapter
func (r CreatePaymentRequest) ToGatewayRequest(ipAddress string) gateway.PayRequest {
	return gateway.PayRequest{
		OrderID:   r.OrderID,
		Amount:    r.Amount,
		IPAddress: ipAddress,
	}
}

type CreatePaymentResponse struct {
	Method        string `json:"method"`
	RedirectURL   string `json:"redirect_url"`
	TransactionID string `json:"transaction_id"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
}

func NewCreatePaymentResponse(method string, resp *gateway.PayResponse) *CreatePaymentResponse {
	return &CreatePaymentResponse{
		Method:        method,
		RedirectURL:   resp.RedirectURL,
		TransactionID: resp.TransactionID,
		Description:   resp.Description,
		CreatedAt:     resp.CreatedDatetime,
	}
}

// =====================================================
// ADMIN: REFUND REQUEST/RESPONSE
// =====================================================

type RefundRequestDTO struct {
	Method          string          `json:"method" binding:"required"`
	TransactionID   string          `json:"transaction_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionNo   string          `json:"transaction_no" binding:"required"`
	TransactionDate string          `json:"transaction_date" binding:"required"`
}

func (r RefundRequestDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Method, validation.Required.Error("method is required")),
		validation.Field(&r.TransactionID,
			validation.Required.Error("transaction_id is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Amount, validation.By(positiveAmount)),
		validation.Field(&r.TransactionNo, validation.Required.Error("transaction_no is required")),
		validation.Field(&r.TransactionDate,
			validation.Required.Error("transaction_date is required"),
			validation.Match(providerDatetime).Error("transaction_date must be yyyyMMddHHmmss"),
		),
	)
}

// ToGatewayRequest converts the DTO for the adapter
func (r RefundRequestDTO) ToGatewayRequest(ipAddress, createBy string) gateway.RefundRequest {
	return gateway.RefundRequest{
		TransactionID:       r.TransactionID,
		Amount:              r.Amount,
		TransactionNo:       r.TransactionNo,
		IPAddress:           ipAddress,
		TransactionDatetime: r.TransactionDate,
		CreateBy:            createBy,
	}
}

type RefundResponseDTO struct {
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
	Success       bool   `json:"success"`
	ResponseCode  string `json:"response_code,omitempty"`
	Message       string `json:"message"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func NewRefundResponseDTO(method, transactionID string, resp *gateway.RefundResponse) *RefundResponseDTO {
	return &RefundResponseDTO{
		Method:        method,
		TransactionID: transactionID,
		Success:       resp.Success,
		ResponseCode:  resp.ResponseCode,
		Message:       resp.Message,
		FailureReason: resp.FailureReason,
	}
}

// =====================================================
// ADMIN: QUERY TRANSACTION REQUEST/RESPONSE
// =====================================================

type QueryTransactionRequestDTO struct {
	Method          string `uri:"method"`
	TransactionID   string `uri:"transaction_id"`
	TransactionDate string `form:"transaction_date"`
}

func (r QueryTransactionRequestDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Method, validation.Required.Error("method is required")),
		validation.Field(&r.TransactionID,
			validation.Required.Error("transaction_id is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.TransactionDate,
			validation.Required.Error("transaction_date is required"),
			validation.Match(providerDatetime).Error("transaction_date must be yyyyMMddHHmmss"),
		),
	)
}

// ToGatewayRequest converts the DTO for the adapter
func (r QueryTransactionRequestDTO) ToGatewayRequest(ipAddress string) gateway.QueryRequest {
	return gateway.QueryRequest{
		TransactionID:       r.TransactionID,
		TransactionDatetime: r.TransactionDate,
		IPAddress:           ipAddress,
	}
}

type QueryTransactionResponseDTO struct {
	Method            string           `json:"method"`
	TransactionID     string           `json:"transaction_id"`
	Success           bool             `json:"success"`
	ResponseCode      string           `json:"response_code,omitempty"`
	Message           string           `json:"message"`
	TransactionNo     string           `json:"transaction_no,omitempty"`
	TransactionType   string           `json:"transaction_type,omitempty"`
	TransactionStatus string           `json:"transaction_status,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	PayDate           string           `json:"pay_date,omitempty"`
	BankCode          string           `json:"bank_code,omitempty"`
	FailureReason     string           `json:"failure_reason,omitempty"`
}

func NewQueryTransactionResponseDTO(method, transactionID string, resp *gateway.QueryResponse) *QueryTransactionResponseDTO {
	dto := &QueryTransactionResponseDTO{
		Method:            method,
		TransactionID:     transactionID,
		Success:           resp.Success,
		ResponseCode:      resp.ResponseCode,
		Message:           resp.Message,
		TransactionNo:     resp.TransactionNo,
		TransactionType:   resp.TransactionType,
		TransactionStatus: resp.TransactionStatus,
		PayDate:           resp.PayDate,
		BankCode:          resp.BankCode,
		FailureReason:     resp.FailureReason,
	}

	// Provider reports minor units
	if minor, err := decimal.NewFromString(resp.Amount); err == nil {
		amount := minor.Shift(-2)
		dto.Amount = &amount
	}
	return dto
}

// =====================================================
// PAYMENT METHODS RESPONSE
// =====================================================

type PaymentMethodsResponse struct {
	Methods []string `json:"methods"`
}

// =====================================================
// VALIDATION RULES
// =====================================================

func requiredUUID(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("order_id is required")
	}
	return nil
}

func positiveAmount(value interface{}) error {
	amount, _ := value.(decimal.Decimal)
	if !amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if amount.LessThan(minAmount) {
		return errors.New("amount must be at least 0.01")
	}
	return nil
}
