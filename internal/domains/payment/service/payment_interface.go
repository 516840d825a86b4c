package service

import (
	"context"

	"payment-gateway/internal/domains/payment/model"
)

// =====================================================
// PAYMENT SERVICE INTERFACE
// =====================================================
type PaymentService interface {
	// CreatePayment resolves the method and returns the provider redirect
	CreatePayment(ctx context.Context, req model.CreatePaymentRequest, ipAddress string) (*model.CreatePaymentResponse, error)

	// Refund requests a refund of a prior transaction.
	// At most one refund per transaction is in flight within the lock TTL.
	Refund(ctx context.Context, req model.RefundRequestDTO, ipAddress, createBy string) (*model.RefundResponseDTO, error)

	// QueryTransaction reports the provider-side state of a prior transaction.
	// Gateways without the capability yield an unsupported-method error.
	QueryTransaction(ctx context.Context, req model.QueryTransactionRequestDTO, ipAddress string) (*model.QueryTransactionResponseDTO, error)

	// Methods lists the registered payment methods
	Methods() []string
}
