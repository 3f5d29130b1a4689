package domain

import "time"

// RawRecord is one unvalidated row of the flat observation table, all
// fields still in their wire form. The reserved ninth CSV column is not
// carried.
type RawRecord struct {
	Datatype            string
	Value               string
	Unit                string
	TimeOffset          string
	TimeResolution      string
	TimeSeriesID        string
	PerformanceCategory string
	QualityCode         string
	Station             string
	ReferenceTimestamp  string
}

// Observation is a validated observation row. After aggregation the
// timestamp has day precision (UTC midnight) and Missing marks an
// explicit gap in the daily series rather than an absent row.
type Observation struct {
	Station   string
	Timestamp time.Time
	Datatype  string
	Value     float64
	Missing   bool
	Unit      string

	// Filled by the station metadata join. A station absent from the
	// metadata keeps its data but cannot appear on the map.
	StationName string
	Lon         float64
	Lat         float64
	HasCoords   bool
}

// StationMetadata is one row of the station reference table.
type StationMetadata struct {
	SourceID string
	Name     string
	Lon      float64
	Lat      float64
}

// SeriesKey identifies one daily series.
type SeriesKey struct {
	Station  string
	Datatype string
}
