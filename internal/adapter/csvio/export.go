package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/oysteike/miljodataAnalyse/internal/forecast"
	"github.com/oysteike/miljodataAnalyse/internal/interp"
)

// WriteGrid serializes the surviving interpolated mesh points.
func WriteGrid(w io.Writer, points []interp.GridPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lon", "lat", "scaled_value"}); err != nil {
		return fmt.Errorf("write grid: %w", err)
	}
	for _, p := range points {
		row := []string{formatFloat(p.Lon), formatFloat(p.Lat), formatFloat(p.ScaledValue)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write grid: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteForecast serializes the predicted periods.
func WriteForecast(w io.Writer, points []forecast.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "predicted_value"}); err != nil {
		return fmt.Errorf("write forecast: %w", err)
	}
	for _, p := range points {
		row := []string{p.Timestamp.UTC().Format(time.RFC3339), formatFloat(p.Predicted)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write forecast: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistorical serializes the resampled table a forecast was fitted
// on, aligned on the same period index.
func WriteHistorical(w io.Writer, points []forecast.HistoricalPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "historical_value"}); err != nil {
		return fmt.Errorf("write historical: %w", err)
	}
	for _, p := range points {
		row := []string{p.Timestamp.UTC().Format(time.RFC3339), formatFloat(p.Value)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write historical: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
