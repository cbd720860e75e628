package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a failure kind across service boundaries.
type ErrorCode string

const (
	// Authentication (1xxx)
	CodeInvalidCredentials ErrorCode = "AUTH_1001"
	CodeTokenInvalid       ErrorCode = "AUTH_1002"
	CodeNotFound           ErrorCode = "AUTH_1003"

	// Validation (2xxx)
	CodeValidation ErrorCode = "VALID_2001"

	// Stores (5xxx)
	CodeStoreUnavailable ErrorCode = "STORE_5001"
)

// AppError is a typed failure carried from the orchestrators to the transport
// layer. The wrapped cause never reaches callers of Error(); it exists for
// logging only.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// InvalidCredentials never distinguishes unknown user, wrong password and
// inactive account: callers must not be able to enumerate identities.
func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "invalid credentials")
}

// TokenInvalid collapses forged, malformed, expired and revoked tokens into
// one indistinguishable failure.
func TokenInvalid(cause error) *AppError {
	return Wrap(CodeTokenInvalid, "invalid token", cause)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func StoreUnavailable(operation string, cause error) *AppError {
	return Wrap(CodeStoreUnavailable, fmt.Sprintf("store unavailable during %s", operation), cause)
}

// HTTPStatus maps a failure to a transport status code. Unknown errors are
// reported as internal without leaking detail.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidCredentials, CodeTokenInvalid:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
