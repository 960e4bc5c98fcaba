package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

const (
	CodeNotFound          = "RES_001"
	CodeInsufficientFunds = "WAL_001"
	CodeValidation        = "VAL_001"
	CodeInvalidCreds      = "AUTH_001"
	CodeEmailExists       = "AUTH_002"
	CodeInvalidToken      = "AUTH_003"
	CodeUserInactive      = "AUTH_004"
	CodeRateLimited       = "RATE_001"
	CodeInternal          = "SYS_001"
)

// ---- Resources & funds ----

// ErrNotFound reports a missing (or foreign-owned) row of the given entity type.
func ErrNotFound(entity string, id int64) *AppError {
	e := New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
	e.Details = map[string]any{"entity": entity, "id": id}
	return e
}

func ErrInsufficientFunds(walletID int64, requested, available decimal.Decimal) *AppError {
	e := New(CodeInsufficientFunds, "Not enough funds in wallet", http.StatusUnprocessableEntity)
	e.Details = map[string]any{
		"wallet_id": walletID,
		"requested": requested.StringFixed(2),
		"available": available.StringFixed(2),
	}
	return e
}

// ErrValidation rejects malformed input before it reaches persistence.
func ErrValidation(field, reason string) *AppError {
	e := New(CodeValidation, fmt.Sprintf("%s: %s", field, reason), http.StatusBadRequest)
	e.Details = map[string]any{"field": field, "reason": reason}
	return e
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCreds, "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New(CodeEmailExists, "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

func ErrUserInactive() *AppError {
	return New(CodeUserInactive, "User account is inactive", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request-level validation error without a single field.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}
