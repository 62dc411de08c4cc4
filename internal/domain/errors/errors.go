package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrUnsupportedToken = errors.New("unsupported token")
)

// Configuration errors. They indicate a deployment or programming defect and
// are never retried.
var (
	ErrConfiguration           = errors.New("configuration error")
	ErrUnknownTransformer      = fmt.Errorf("unknown transformer deployment: %w", ErrConfiguration)
	ErrUnsupportedFeeType      = fmt.Errorf("unsupported affiliate fee type: %w", ErrConfiguration)
	ErrRuleNotCompatible       = fmt.Errorf("feature rule is not compatible with quote: %w", ErrConfiguration)
	ErrUnsupportedBridgeSource = fmt.Errorf("unsupported bridge source: %w", ErrConfiguration)
)

// Error codes
const (
	CodeBadRequest    = "ERR_BAD_REQUEST"
	CodeInvalidInput  = "ERR_INVALID_INPUT"
	CodeNotFound      = "ERR_NOT_FOUND"
	CodeConflict      = "ERR_CONFLICT"
	CodeUnauthorized  = "ERR_UNAUTHORIZED"
	CodeForbidden     = "ERR_FORBIDDEN"
	CodeInternalError = "ERR_INTERNAL"
	CodeConfiguration = "ERR_CONFIGURATION"

	CodeIdempotencyConflict = "ERR_IDEMPOTENCY_CONFLICT"
	CodeIdempotencyMismatch = "ERR_IDEMPOTENCY_MISMATCH"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

// UnprocessableEntity reports a request the compiler cannot encode
func UnprocessableEntity(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeConfiguration, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
