package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode identifies a failure class carried in API responses.
type ErrorCode string

const (
	// Generic
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"

	// x402 payment verification
	ErrCodeMissingParams        ErrorCode = "MISSING_PARAMS"
	ErrCodeInvalidSignature     ErrorCode = "INVALID_SIGNATURE"
	ErrCodeTransactionNotFound  ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionFailed    ErrorCode = "TRANSACTION_FAILED"
	ErrCodeSenderMismatch       ErrorCode = "SENDER_MISMATCH"
	ErrCodeRecipientMismatch    ErrorCode = "RECIPIENT_MISMATCH"
	ErrCodeNoBalanceData        ErrorCode = "NO_BALANCE_DATA"
	ErrCodeInsufficientAmount   ErrorCode = "INSUFFICIENT_AMOUNT"
	ErrCodeVerificationError    ErrorCode = "VERIFICATION_ERROR"
	ErrCodeSignatureAlreadyUsed ErrorCode = "SIGNATURE_ALREADY_USED"

	// Generation
	ErrCodeMissingFields    ErrorCode = "MISSING_FIELDS"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"

	// NFT metadata
	ErrCodeMetadataError ErrorCode = "METADATA_ERROR"

	// Ledger / cache
	ErrCodeCacheError ErrorCode = "CACHE_ERROR"
)

// AppError is the typed application error flowing from services to handlers.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a diagnostic field surfaced in the response body.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// HTTPStatus maps the error code onto the x402 status taxonomy: input
// errors are 4xx, policy mismatches are 402 Payment Required, upstream
// failures are 5xx.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeMissingParams,
		ErrCodeMissingFields, ErrCodeSenderMismatch, ErrCodeRecipientMismatch:
		return http.StatusBadRequest
	case ErrCodeInvalidSignature, ErrCodeTransactionFailed,
		ErrCodeNoBalanceData, ErrCodeInsufficientAmount:
		return http.StatusPaymentRequired
	case ErrCodeNotFound, ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case ErrCodeSignatureAlreadyUsed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsPaymentRequired reports whether the failure belongs to the 402 class.
func (e *AppError) IsPaymentRequired() bool {
	return e.HTTPStatus() == http.StatusPaymentRequired
}

func (e *AppError) IsInternal() bool {
	return e.HTTPStatus() == http.StatusInternalServerError
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap attaches a cause to a new application error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// AsAppError extracts an AppError, or wraps an arbitrary error into an
// internal one so every handler path has a typed outcome.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternal, "internal server error")
}
