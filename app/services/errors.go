package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an already used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrSignatureInvalid is returned when a gateway payment signature
	// does not verify. No order is created in that case.
	ErrSignatureInvalid = errors.New("payment signature invalid")

	// ErrGatewayUnavailable is returned when the payment gateway cannot
	// be reached or rejects the request.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// ValidationError reports a cart or request that failed a business rule.
// The message is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports a rejected order status change.
type TransitionError struct {
	From, To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
