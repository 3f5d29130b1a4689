// Package csvio is the tabular ingestion and export boundary: it parses
// the flat observation export and the station reference table into typed
// rows, and serializes the pipeline's output tables back to CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// rawColumns is the fixed positional layout of the headerless export.
// The ninth column is reserved and ignored.
var rawColumns = []string{
	"datatype", "value", "unit", "timeOffset", "timeResolution",
	"timeSeriesId", "performanceCategory", "qualityCode", "..",
	"station", "referenceTimestamp",
}

// stationColumns are the required headers of the station reference table.
var stationColumns = []string{"source_id", "station_name", "lon", "lat"}

// ReadRawRecords parses the headerless positional observation export.
// Rows narrower than the expected layout make the whole file unusable
// and yield a *domain.SchemaError naming the absent columns; extra
// trailing columns are ignored.
func ReadRawRecords(r io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read raw observations: %w", err)
	}
	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < len(rawColumns) {
			return nil, &domain.SchemaError{Missing: rawColumns[len(row):]}
		}
		records = append(records, domain.RawRecord{
			Datatype:            row[0],
			Value:               row[1],
			Unit:                row[2],
			TimeOffset:          row[3],
			TimeResolution:      row[4],
			TimeSeriesID:        row[5],
			PerformanceCategory: row[6],
			QualityCode:         row[7],
			Station:             row[9],
			ReferenceTimestamp:  row[10],
		})
	}
	return records, nil
}

// ReadStationMetadata parses the station reference table. The file
// carries a header row; missing required columns yield a
// *domain.SchemaError. Stations whose coordinates do not parse are
// skipped, since they could never be placed on the map anyway.
func ReadStationMetadata(r io.Reader) ([]domain.StationMetadata, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read station metadata: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.SchemaError{Missing: stationColumns}
	}
	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[name] = i
	}
	var missing []string
	for _, name := range stationColumns {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}
	stations := make([]domain.StationMetadata, 0, len(rows)-1)
	for _, row := range rows[1:] {
		lon, errLon := strconv.ParseFloat(row[idx["lon"]], 64)
		lat, errLat := strconv.ParseFloat(row[idx["lat"]], 64)
		if errLon != nil || errLat != nil {
			continue
		}
		stations = append(stations, domain.StationMetadata{
			SourceID: row[idx["source_id"]],
			Name:     row[idx["station_name"]],
			Lon:      lon,
			Lat:      lat,
		})
	}
	return stations, nil
}

// WriteObservations serializes a cleaned daily table. Missing values
// are written as empty cells; coordinates are written only when the
// metadata join attached them.
func WriteObservations(w io.Writer, obs []domain.Observation) error {
	cw := csv.NewWriter(w)
	header := []string{"reference_timestamp", "datatype", "value", "unit", "station", "station_name", "lon", "lat"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write observations: %w", err)
	}
	for _, o := range obs {
		row := []string{
			o.Timestamp.UTC().Format(time.RFC3339),
			o.Datatype,
			formatValue(o.Value, o.Missing),
			o.Unit,
			o.Station,
			o.StationName,
			"",
			"",
		}
		if o.HasCoords {
			row[6] = formatFloat(o.Lon)
			row[7] = formatFloat(o.Lat)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write observations: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64, missing bool) string {
	if missing {
		return ""
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
