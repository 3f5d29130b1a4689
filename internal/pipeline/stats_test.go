package pipeline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

func TestSummarize(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("descriptive statistics over known values", func(t *testing.T) {
		// Values 1,2,3,4,100: mean 22, median 3, population std sqrt(1522).
		values := []float64{1, 2, 3, 4, 100}
		var obs []domain.Observation
		for i, v := range values {
			obs = append(obs, obsAt("SN1", "air_temperature", day1.AddDate(0, 0, i), v))
		}

		s, err := Summarize(obs, day1, day1.AddDate(0, 0, 10))
		require.NoError(t, err)

		assert.Equal(t, 5, s.Count)
		assert.InDelta(t, 22, s.Mean, 1e-9)
		assert.InDelta(t, 3, s.Median, 1e-9)
		assert.InDelta(t, math.Sqrt(1522), s.StdDev, 1e-9)
	})

	t.Run("even count averages the middle pair", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "air_temperature", day1, 4),
			obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 1), 1),
			obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 2), 3),
			obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 3), 2),
		}

		s, err := Summarize(obs, day1, day1.AddDate(0, 0, 10))
		require.NoError(t, err)
		assert.InDelta(t, 2.5, s.Median, 1e-9)
	})

	t.Run("window bounds are inclusive and missing rows are skipped", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "air_temperature", day1.AddDate(0, 0, -1), 100),
			obsAt("SN1", "air_temperature", day1, 1),
			missingAt("SN1", "air_temperature", day1.AddDate(0, 0, 1)),
			obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 2), 3),
			obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 3), 100),
		}

		s, err := Summarize(obs, day1, day1.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Count)
		assert.InDelta(t, 2, s.Mean, 1e-9)
	})

	t.Run("empty window is insufficient data", func(t *testing.T) {
		obs := []domain.Observation{
			missingAt("SN1", "air_temperature", day1),
		}

		_, err := Summarize(obs, day1, day1.AddDate(0, 0, 1))
		assert.True(t, errors.Is(err, domain.ErrInsufficientData))
	})
}
