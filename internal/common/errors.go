package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Each stage wraps one of these sentinels so the
// processor and consumer can branch with errors.Is.
var (
	// extraction stage
	ErrUnsupportedFormat   = errors.New("unsupported document format")
	ErrExtractionFailed    = errors.New("text extraction failed")
	ErrInsufficientContent = errors.New("insufficient text content")

	// AI invocation stage
	ErrServiceUnavailable = errors.New("inference service unavailable")
	ErrRateLimited        = errors.New("inference service rate limited")
	ErrTimeout            = errors.New("inference call timed out")

	// response stage
	ErrNormalizationFailed = errors.New("response normalization failed")

	// sink stage
	ErrPersistenceFailed = errors.New("persistence update failed")

	// storage collaborator
	ErrNotFound     = errors.New("resource not found")
	ErrAccessDenied = errors.New("access denied")

	// config
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
