package entities

import (
	"errors"
	"fmt"
)

var (
	// Verification errors. A mismatch keeps the pending registration alive
	// so the user can retry; an expired code requires a resend.
	ErrCodeMismatch = errors.New("otp code does not match")
	ErrOTPExpired   = errors.New("otp code has expired")

	// ErrPendingNotFound means there is no pending registration for the
	// email, either because none was started or because the TTL evicted it.
	ErrPendingNotFound = errors.New("no pending registration for this email")

	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")

	ErrRateLimited = errors.New("too many requests, please try again later")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account is not verified")
)

// ValidationError reports a malformed or missing input field. It is always
// raised before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DeliveryError wraps a failure from the mail provider. The pending
// registration is never created when delivery fails, so the user can simply
// retry the whole registration.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver verification email: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
