package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMError_Unwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewLLMError("anthropic/claude-3.5-haiku", "judge", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "anthropic/claude-3.5-haiku")
	assert.Contains(t, err.Error(), "judge")
}

func TestStoreError_Unwrap(t *testing.T) {
	underlying := errors.New("database locked")
	err := NewStoreError("verdicts", "insert", underlying)

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "verdicts")
	assert.Contains(t, err.Error(), "insert")
}
