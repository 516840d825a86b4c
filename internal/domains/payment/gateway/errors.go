package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrDuplicateMethod    = errors.New("duplicate payment gateway")
	ErrInvalidConfig      = errors.New("invalid gateway config")
	ErrInvalidRequest     = errors.New("invalid gateway request")
	ErrTransport          = errors.New("gateway transport failure")
	ErrQueryNotSupported  = errors.New("gateway does not support transaction query")
	ErrIntegrityViolation = errors.New("gateway response integrity violation")
)

// IntegrityError is returned when a provider reply claims success
// but its signature does not match. It means tampering or a secret
// mismatch and must never be reported as an ordinary failed refund.
type IntegrityError struct {
	Method string
	TxnRef string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s response hash mismatch for txn %s", ErrIntegrityViolation, e.Method, e.TxnRef)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityViolation
}
