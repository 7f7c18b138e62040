package utils

import "errors"

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrInvalidPhone        = errors.New("invalid_phone")
	ErrNoPendingCode       = errors.New("no_pending_code")
	ErrCodeExpired         = errors.New("code_expired")
	ErrCodeInvalid         = errors.New("code_invalid")
	ErrTooManyAttempts     = errors.New("too_many_attempts")
	ErrTransactionNotFound = errors.New("transaction_not_found")

	// For rate limiting
	ErrRateLimitExceeded = errors.New("rate_limit_exceeded")

	// For external service failures (e.g., Twilio)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)
