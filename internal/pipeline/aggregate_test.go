package pipeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

func obsAt(station, datatype string, ts time.Time, value float64) domain.Observation {
	return domain.Observation{Station: station, Datatype: datatype, Timestamp: ts, Value: value}
}

func missingAt(station, datatype string, ts time.Time) domain.Observation {
	return domain.Observation{Station: station, Datatype: datatype, Timestamp: ts, Missing: true}
}

func TestAggregate(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)
	policies := domain.DefaultPolicyMap()

	t.Run("sum policy adds sub-daily readings", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "sum(precipitation_amount P1D)", day1.Add(6*time.Hour), 1.0),
			obsAt("SN1", "sum(precipitation_amount P1D)", day1.Add(18*time.Hour), 2.0),
		}

		out := Aggregate(obs, policies)

		require.Len(t, out, 1)
		assert.Equal(t, day1, out[0].Timestamp)
		assert.InDelta(t, 3.0, out[0].Value, 1e-9)
		assert.False(t, out[0].Missing)
	})

	t.Run("last policy keeps the latest known reading", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "max(surface_air_pressure P1D)", day1.Add(6*time.Hour), 1000),
			obsAt("SN1", "max(surface_air_pressure P1D)", day1.Add(18*time.Hour), 1005),
			missingAt("SN1", "max(surface_air_pressure P1D)", day1.Add(23*time.Hour)),
		}

		out := Aggregate(obs, policies)

		require.Len(t, out, 1)
		assert.InDelta(t, 1005, out[0].Value, 1e-9)
		assert.False(t, out[0].Missing)
	})

	t.Run("one row per station, datatype and day", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "air_temperature", day1.Add(6*time.Hour), 4),
			obsAt("SN1", "air_temperature", day1.Add(18*time.Hour), 7),
			obsAt("SN2", "air_temperature", day1.Add(6*time.Hour), 2),
			obsAt("SN1", "wind_speed", day1.Add(6*time.Hour), 9),
		}

		out := Aggregate(obs, policies)

		require.Len(t, out, 3)
		seen := make(map[domain.SeriesKey]bool)
		for _, o := range out {
			k := domain.SeriesKey{Station: o.Station, Datatype: o.Datatype}
			assert.False(t, seen[k])
			seen[k] = true
		}
	})

	t.Run("interior gap days become missing markers", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "air_temperature", day1.Add(6*time.Hour), 10),
			obsAt("SN1", "air_temperature", day3.Add(6*time.Hour), 30),
		}

		out := Aggregate(obs, policies)

		require.Len(t, out, 3)
		assert.Equal(t, day2, out[1].Timestamp)
		assert.True(t, out[1].Missing)
		assert.Equal(t, "SN1", out[1].Station)
		assert.Equal(t, "air_temperature", out[1].Datatype)
	})

	t.Run("day with only missing readings stays missing", func(t *testing.T) {
		obs := []domain.Observation{
			missingAt("SN1", "sum(precipitation_amount P1D)", day1.Add(6*time.Hour)),
			missingAt("SN1", "sum(precipitation_amount P1D)", day1.Add(18*time.Hour)),
		}

		out := Aggregate(obs, policies)

		require.Len(t, out, 1)
		assert.True(t, out[0].Missing)
		assert.Zero(t, out[0].Value)
	})

	t.Run("aggregating twice changes nothing", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "sum(precipitation_amount P1D)", day1.Add(6*time.Hour), 1.0),
			obsAt("SN1", "sum(precipitation_amount P1D)", day1.Add(18*time.Hour), 2.0),
			obsAt("SN1", "sum(precipitation_amount P1D)", day3.Add(6*time.Hour), 4.0),
		}

		once := Aggregate(obs, policies)
		twice := Aggregate(once, policies)

		assert.Empty(t, cmp.Diff(once, twice))
	})

	t.Run("input is not modified", func(t *testing.T) {
		obs := []domain.Observation{
			obsAt("SN1", "air_temperature", day3.Add(6*time.Hour), 30),
			obsAt("SN1", "air_temperature", day1.Add(6*time.Hour), 10),
		}

		Aggregate(obs, domain.DefaultPolicyMap())

		assert.Equal(t, day3.Add(6*time.Hour), obs[0].Timestamp)
		assert.Equal(t, day1.Add(6*time.Hour), obs[1].Timestamp)
	})
}

func TestSliceDay(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		obsAt("SN1", "air_temperature", day1, 4),
		obsAt("SN2", "air_temperature", day1, 7),
		obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 1), 6),
		obsAt("SN1", "wind_speed", day1, 2),
	}

	slice := SliceDay(obs, "air_temperature", day1)

	require.Len(t, slice, 2)
	assert.Equal(t, "SN1", slice[0].Station)
	assert.Equal(t, "SN2", slice[1].Station)
}

func TestSeries(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		obsAt("SN1", "air_temperature", day1.AddDate(0, 0, 1), 6),
		obsAt("SN2", "air_temperature", day1, 7),
		obsAt("SN1", "air_temperature", day1, 4),
		obsAt("SN1", "wind_speed", day1, 2),
	}

	series := Series(obs, "SN1", "air_temperature")

	require.Len(t, series, 2)
	assert.Equal(t, day1, series[0].Timestamp)
	assert.InDelta(t, 4, series[0].Value, 1e-9)
	assert.Equal(t, day1.AddDate(0, 0, 1), series[1].Timestamp)
}
