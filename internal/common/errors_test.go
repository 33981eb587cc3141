package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatting(t *testing.T) {
	err := NewAppError("EXTRACT_ERROR", "could not decode document", ErrExtractionFailed)
	assert.Equal(t, "EXTRACT_ERROR: could not decode document: text extraction failed", err.Error())

	bare := NewAppError("CONFIG_ERROR", "DB_URL is required", nil)
	assert.Equal(t, "CONFIG_ERROR: DB_URL is required", bare.Error())
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := NewAppError("LLM_ERROR", "generate content", ErrRateLimited)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	wrapped := WrapError(ErrNotFound, "download document")
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "download document: resource not found", wrapped.Error())

	var appErr *AppError
	inner := NewAppError("STORE_ERROR", "get object", ErrAccessDenied)
	assert.True(t, errors.As(WrapError(inner, "download document"), &appErr))
}
