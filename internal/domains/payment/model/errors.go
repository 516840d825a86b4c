package model

import (
	"errors"
	"fmt"
	"net/http"

	"payment-gateway/internal/domains/payment/gateway"
)

// =====================================================
// PREDEFINED ERRORS
// =====================================================

var (
	ErrInvalidRequest     = errors.New("invalid payment request")
	ErrRefundInProgress   = errors.New("refund already requested for this transaction")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// =====================================================
// CUSTOM PAYMENT ERROR
// =====================================================

type PaymentError struct {
	Code    string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HTTPStatus maps the error code to a response status
func (e *PaymentError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidRequest, ErrCodeInvalidGateway:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeRefundAlreadyExists:
		return http.StatusConflict
	case ErrCodeGatewayUnavailable, ErrCodeInvalidSignature:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// =====================================================
// ERROR CONSTRUCTORS
// =====================================================

func NewInvalidRequestError(err error) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidRequest,
		"Invalid request",
		fmt.Errorf("%w: %v", ErrInvalidRequest, err),
	)
}

func NewInvalidGatewayError(method string, err error) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidGateway,
		fmt.Sprintf("Unsupported payment method: %s", method),
		err,
	)
}

func NewUnauthorizedError() *PaymentError {
	return NewPaymentError(
		ErrCodeUnauthorized,
		"Operator identity required",
		ErrUnauthorized,
	)
}

func NewRefundInProgressError(transactionID string) *PaymentError {
	return NewPaymentError(
		ErrCodeRefundAlreadyExists,
		fmt.Sprintf("Refund already requested for transaction %s", transactionID),
		ErrRefundInProgress,
	)
}

func NewGatewayUnavailableError(err error) *PaymentError {
	return NewPaymentError(
		ErrCodeGatewayUnavailable,
		"Payment gateway unavailable, refund state unknown",
		err,
	)
}

func NewInvalidSignatureError(err error) *PaymentError {
	return NewPaymentError(
		ErrCodeInvalidSignature,
		"Payment gateway response failed signature verification",
		err,
	)
}

func NewInternalError(err error) *PaymentError {
	return NewPaymentError(
		ErrCodeInternalError,
		"Internal payment error",
		err,
	)
}

// ToPaymentError maps any service error to a PaymentError
func ToPaymentError(err error) *PaymentError {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe
	}

	switch {
	case errors.Is(err, gateway.ErrUnknownMethod), errors.Is(err, gateway.ErrQueryNotSupported):
		return NewPaymentError(ErrCodeInvalidGateway, "Unsupported payment method", err)
	case errors.Is(err, gateway.ErrIntegrityViolation):
		return NewInvalidSignatureError(err)
	case errors.Is(err, gateway.ErrTransport):
		return NewGatewayUnavailableError(err)
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError()
	case errors.Is(err, ErrRefundInProgress):
		return NewPaymentError(ErrCodeRefundAlreadyExists, "Refund already requested", err)
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, gateway.ErrInvalidRequest):
		return NewPaymentError(ErrCodeInvalidRequest, "Invalid request", err)
	default:
		return NewInternalError(err)
	}
}
