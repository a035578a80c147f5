package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application-level error with HTTP status code
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodePolicyDenied     = "policy_denied"
	ErrCodeKeyServiceFailed = "key_service_failed"
	ErrCodeChainFailed      = "chain_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternalError    = "internal_error"
)

// Predefined errors
var (
	ErrBadRequest = &AppError{
		Code:       ErrCodeBadRequest,
		Message:    "Invalid request parameters",
		StatusCode: http.StatusBadRequest,
	}

	ErrUnauthorized = &AppError{
		Code:       ErrCodeUnauthorized,
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrNotFound = &AppError{
		Code:       ErrCodeNotFound,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalError = &AppError{
		Code:       ErrCodeInternalError,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Input creates a bad-request error for malformed or missing request data.
// These are never retried.
func Input(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeBadRequest,
		Message:    "Invalid request parameters",
		Detail:     detail,
		StatusCode: http.StatusBadRequest,
	}
}

// Auth creates an error for a missing or invalid caller identity.
func Auth(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeUnauthorized,
		Message:    "Authentication required",
		Detail:     detail,
		StatusCode: http.StatusUnauthorized,
	}
}

// PolicyDenied creates a business-rule rejection (name taken, subsidy already
// used, on-chain validation false).
func PolicyDenied(reason string) *AppError {
	return &AppError{
		Code:       ErrCodePolicyDenied,
		Message:    "Policy denied",
		Detail:     reason,
		StatusCode: http.StatusForbidden,
	}
}

// KeyService wraps a failure from the key-management service. Never retried:
// the cause may be a corrupted record rather than a transient outage.
func KeyService(err error) *AppError {
	return &AppError{
		Code:       ErrCodeKeyServiceFailed,
		Message:    "Key service operation failed",
		Detail:     err.Error(),
		StatusCode: http.StatusBadGateway,
	}
}

// Chain wraps an RPC, submission or confirmation failure from the chain
// client. Never retried: resubmitting a mint or tip risks double-charging.
func Chain(err error) *AppError {
	return &AppError{
		Code:       ErrCodeChainFailed,
		Message:    "Chain operation failed",
		Detail:     err.Error(),
		StatusCode: http.StatusBadGateway,
	}
}

// NotFound creates a not-found error for a record whose presence was required.
func NotFound(detail string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    "Resource not found",
		Detail:     detail,
		StatusCode: http.StatusNotFound,
	}
}

// WalletNotFound creates a wallet not found error
func WalletNotFound(userID string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    "Wallet not found",
		Detail:     fmt.Sprintf("user_id: %s", userID),
		StatusCode: http.StatusNotFound,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}
