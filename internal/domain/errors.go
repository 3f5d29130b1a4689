package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientData marks a result that could not be computed because
// too few usable points exist. Callers treat it as recoverable: the
// affected output is skipped, the run continues.
var ErrInsufficientData = errors.New("insufficient data")

// SchemaError reports required input columns that are absent. Fatal; no
// partial result is produced.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input schema missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// ConfigurationError reports an invalid parameter value. Fatal; invalid
// settings are never silently defaulted.
type ConfigurationError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%q: %s", e.Param, e.Value, e.Reason)
}
