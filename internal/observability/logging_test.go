package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json is the default format", func(t *testing.T) {
		logger := NewLogger("info", "json")
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("text format honors the level", func(t *testing.T) {
		logger := NewLogger("debug", "text")
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := NewLogger("chatty", "json")
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	})
}

func TestNewMetricsForTesting(t *testing.T) {
	// Unregistered sets may coexist, which is what keeps parallel
	// pipeline tests from panicking on duplicate registration.
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	require.NotNil(t, a)
	require.NotNil(t, b)
	a.RowsIngested.Inc()
	b.RowsIngested.Add(2)
}
