package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestFlattenPayloads(t *testing.T) {
	t.Run("shifts reference time by offset", func(t *testing.T) {
		payloads := []StationPayload{{
			SourceID:      "SN90450",
			ReferenceTime: "2024-03-01T00:00:00Z",
			Observations: []PayloadObservation{
				{ElementID: "sum(precipitation_amount P1D)", Value: floatPtr(2.5), Unit: "mm", TimeOffset: "PT6H"},
				{ElementID: "max(surface_air_pressure P1D)", Value: floatPtr(1012), Unit: "hPa", TimeOffset: "PT18H"},
			},
		}}

		records := FlattenPayloads(payloads)
		require.Len(t, records, 2)

		assert.Equal(t, "2024-03-01T06:00:00Z", records[0].ReferenceTimestamp)
		assert.Equal(t, "2.5", records[0].Value)
		assert.Equal(t, "mm", records[0].Unit)
		assert.Equal(t, "SN90450", records[0].Station)

		assert.Equal(t, "2024-03-01T18:00:00Z", records[1].ReferenceTimestamp)
		assert.Equal(t, "1012", records[1].Value)
	})

	t.Run("nil value becomes empty string", func(t *testing.T) {
		payloads := []StationPayload{{
			SourceID:      "SN18700",
			ReferenceTime: "2024-03-01T00:00:00Z",
			Observations:  []PayloadObservation{{ElementID: "air_temperature", TimeOffset: "PT0H"}},
		}}

		records := FlattenPayloads(payloads)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].Value)
	})

	t.Run("unparsable offset keeps reference time", func(t *testing.T) {
		payloads := []StationPayload{{
			SourceID:      "SN18700",
			ReferenceTime: "2024-03-01T00:00:00Z",
			Observations:  []PayloadObservation{{ElementID: "air_temperature", Value: floatPtr(4), TimeOffset: "later"}},
		}}

		records := FlattenPayloads(payloads)
		require.Len(t, records, 1)
		assert.Equal(t, "2024-03-01T00:00:00Z", records[0].ReferenceTimestamp)
	})
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT0H", 0},
		{"PT6H", 6 * time.Hour},
		{"PT1H30M", 90 * time.Minute},
		{"PT10S", 10 * time.Second},
		{"P1D", 24 * time.Hour},
		{"P2DT3H", 51 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseISODuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []string{"", "6H", "PTH", "P1Y", "PT5"} {
		t.Run("invalid "+in, func(t *testing.T) {
			_, err := ParseISODuration(in)
			assert.Error(t, err)
		})
	}
}
