package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

func TestJoinStations(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	obs := []domain.Observation{
		obsAt("SN90450", "air_temperature", day, 2),
		obsAt("SN99999", "air_temperature", day, 5),
	}
	stations := []domain.StationMetadata{
		{SourceID: "SN90450", Name: "TROMSOE", Lon: 18.9368, Lat: 69.6537},
	}

	out := JoinStations(obs, stations)

	require.Len(t, out, 2)
	assert.Equal(t, "TROMSOE", out[0].StationName)
	assert.InDelta(t, 18.9368, out[0].Lon, 1e-9)
	assert.InDelta(t, 69.6537, out[0].Lat, 1e-9)
	assert.True(t, out[0].HasCoords)

	// Unknown stations keep their data but never reach the map.
	assert.False(t, out[1].HasCoords)
	assert.Empty(t, out[1].StationName)
	assert.InDelta(t, 5, out[1].Value, 1e-9)

	// The input table is untouched.
	assert.False(t, obs[0].HasCoords)
}
