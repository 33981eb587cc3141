package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsAllFailures(t *testing.T) {
	err := NewValidator().
		Field("document_id", uuid.Nil, NonNilUUID).
		Field("storage_path", "", Required).
		Field("content_type", "application/pdf", Required).
		Error()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "document_id")
	assert.Contains(t, err.Error(), "storage_path")
	assert.NotContains(t, err.Error(), "content_type")
}

func TestValidatorPassesCleanInput(t *testing.T) {
	err := NewValidator().
		Field("document_id", uuid.New(), NonNilUUID).
		Field("storage_path", "cvs/1.pdf", Required).
		Error()
	assert.NoError(t, err)
}

func TestRequiredRejectsWhitespaceAndNonStrings(t *testing.T) {
	assert.NotNil(t, Required("f", "   "))
	assert.NotNil(t, Required("f", 42))
	assert.Nil(t, Required("f", "value"))
}
