package model

import "time"

// =====================================================
// INTERNAL ERROR CODES
// =====================================================
const (
	// Payment creation errors
	ErrCodeInvalidRequest = "PAY004"
	ErrCodeInvalidGateway = "PAY005"

	// Refund errors
	ErrCodeRefundAlreadyExists = "PAY010"

	// Integrity errors
	ErrCodeInvalidSignature = "PAY012"

	// Gateway errors
	ErrCodeGatewayUnavailable = "PAY016"

	// System errors
	ErrCodeUnauthorized  = "PAY021"
	ErrCodeInternalError = "PAY024" // Internal system error
)

// =====================================================
// PAYMENT CONFIGURATION
// =====================================================
const (
	// DefaultRefundLockTTL bounds how long one transaction is locked against repeat refunds
	DefaultRefundLockTTL = 15 * time.Minute

	// RefundLockKeyPrefix namespaces refund guard keys in the cache
	RefundLockKeyPrefix = "payment:refund:lock:"
)

// RefundLockKey builds the cache key guarding refunds of one transaction
func RefundLockKey(method, transactionID string) string {
	return RefundLockKeyPrefix + method + ":" + transactionID
}
