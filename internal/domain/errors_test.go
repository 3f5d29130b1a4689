package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError_NamesMissingColumns(t *testing.T) {
	err := error(&SchemaError{Missing: []string{"station", "referenceTimestamp"}})

	assert.Contains(t, err.Error(), "station")
	assert.Contains(t, err.Error(), "referenceTimestamp")

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"station", "referenceTimestamp"}, schemaErr.Missing)
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Param: "GRID_RESOLUTION", Value: "-5", Reason: "must be positive"}

	assert.Contains(t, err.Error(), "GRID_RESOLUTION")
	assert.Contains(t, err.Error(), "-5")
	assert.Contains(t, err.Error(), "must be positive")
}

func TestErrInsufficientData_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("resample: %w", ErrInsufficientData)
	assert.True(t, errors.Is(wrapped, ErrInsufficientData))
}
