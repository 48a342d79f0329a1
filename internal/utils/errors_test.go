package utils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError("Insufficient data")
	assert.EqualError(t, err, "Insufficient data")
	assert.True(t, IsInsufficientData(err))
	assert.False(t, IsModelUnavailable(err))
	assert.False(t, IsDataFormat(err))
}

func TestModelUnavailableError(t *testing.T) {
	err := NewModelUnavailableError("xgboost")
	assert.EqualError(t, err, "xgboost not available")
	assert.True(t, IsModelUnavailable(err))
	assert.False(t, IsInsufficientData(err))
}

func TestDataFormatError(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := NewDataFormatError("cannot decode aggregated dataset", cause)
	assert.EqualError(t, err, "cannot decode aggregated dataset: unexpected EOF")
	assert.True(t, IsDataFormat(err))
	assert.ErrorIs(t, err, cause)
}

func TestDataFormatErrorWithoutCause(t *testing.T) {
	err := NewDataFormatError("aggregated dataset has no series views", nil)
	assert.EqualError(t, err, "aggregated dataset has no series views")
}

func TestWrappedErrorsKeepType(t *testing.T) {
	err := fmt.Errorf("pair failed: %w", NewInsufficientDataError("Insufficient data"))
	assert.True(t, IsInsufficientData(err))
}
