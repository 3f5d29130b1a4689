package pipeline

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// timestampLayouts are accepted reference-timestamp formats, tried in
// order. RFC 3339 also covers the feed's fractional-second variant.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CleanReport tallies row-level outcomes of a cleaning pass.
type CleanReport struct {
	Rows           int
	DroppedBadTime int
	CoercedMissing int
	OutliersNulled int
}

// Clean validates raw records and nulls statistical outliers.
//
// Rows whose timestamp does not parse never existed as observations and
// are dropped. Rows whose value does not parse are kept as explicit
// missing markers so the imputer can fill the day later. Outliers are
// nulled per datatype group: a value at least threshold population
// standard deviations from the group mean becomes missing. Scores are
// computed once per pass over the group's known values, so nulling a
// value does not cascade further removals within the same pass.
//
// The result is a fresh table sorted by (station, datatype, time); the
// input is never modified.
func Clean(records []domain.RawRecord, threshold float64) ([]domain.Observation, CleanReport) {
	report := CleanReport{Rows: len(records)}
	obs := make([]domain.Observation, 0, len(records))
	for _, rec := range records {
		ts, err := parseTimestamp(rec.ReferenceTimestamp)
		if err != nil {
			report.DroppedBadTime++
			continue
		}
		o := domain.Observation{
			Station:   rec.Station,
			Timestamp: ts,
			Datatype:  rec.Datatype,
			Unit:      rec.Unit,
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec.Value), 64)
		if err != nil || math.IsNaN(v) {
			o.Missing = true
			report.CoercedMissing++
		} else {
			o.Value = v
		}
		obs = append(obs, o)
	}
	report.OutliersNulled = nullOutliers(obs, threshold)
	sortObservations(obs)
	return obs, report
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// nullOutliers converts z-score outliers to missing markers, one group
// per datatype, and returns the number of values nulled. A group with
// zero variance has no defined z-scores and keeps all of its values.
func nullOutliers(obs []domain.Observation, threshold float64) int {
	groups := make(map[string][]int)
	for i, o := range obs {
		if !o.Missing {
			groups[o.Datatype] = append(groups[o.Datatype], i)
		}
	}
	nulled := 0
	for _, idxs := range groups {
		values := make([]float64, len(idxs))
		for j, i := range idxs {
			values[j] = obs[i].Value
		}
		mean := stat.Mean(values, nil)
		std := popStdDev(values, mean)
		if std == 0 {
			continue
		}
		for _, i := range idxs {
			if math.Abs((obs[i].Value-mean)/std) >= threshold {
				obs[i].Value = 0
				obs[i].Missing = true
				nulled++
			}
		}
	}
	return nulled
}

func sortObservations(obs []domain.Observation) {
	slices.SortStableFunc(obs, func(a, b domain.Observation) int {
		if c := cmp.Compare(a.Station, b.Station); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Datatype, b.Datatype); c != 0 {
			return c
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}
