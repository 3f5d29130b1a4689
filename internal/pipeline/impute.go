package pipeline

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// ImputeReport tallies the outcome of a gap-filling pass.
type ImputeReport struct {
	Filled int
	// Unimputed lists series that kept their gaps because fewer than
	// two known values exist, leaving the regression underdetermined.
	Unimputed []domain.SeriesKey
}

// Impute fills missing daily values per (station, datatype) series by
// ordinary least squares of value on seconds elapsed since the series
// start, fitted on the known rows only. A series with nothing missing
// passes through untouched. A series with fewer than two known values
// cannot support a fit and is returned unchanged and reported; values
// are never invented from nothing.
func Impute(obs []domain.Observation) ([]domain.Observation, ImputeReport) {
	out := slices.Clone(obs)

	var order []domain.SeriesKey
	groups := make(map[domain.SeriesKey][]int)
	for i, o := range out {
		k := domain.SeriesKey{Station: o.Station, Datatype: o.Datatype}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	var report ImputeReport
	for _, k := range order {
		idxs := groups[k]
		start := seriesStart(out, idxs)

		var xs, ys []float64
		var missing []int
		for _, i := range idxs {
			if out[i].Missing {
				missing = append(missing, i)
				continue
			}
			xs = append(xs, out[i].Timestamp.Sub(start).Seconds())
			ys = append(ys, out[i].Value)
		}
		if len(missing) == 0 {
			continue
		}
		if len(xs) < 2 {
			report.Unimputed = append(report.Unimputed, k)
			continue
		}

		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		for _, i := range missing {
			t := out[i].Timestamp.Sub(start).Seconds()
			out[i].Value = alpha + beta*t
			out[i].Missing = false
			report.Filled++
		}
	}
	return out, report
}

// seriesStart is the earliest timestamp in the series, missing rows
// included: elapsed time is measured from the series' true beginning.
func seriesStart(obs []domain.Observation, idxs []int) time.Time {
	start := obs[idxs[0]].Timestamp
	for _, i := range idxs[1:] {
		if obs[i].Timestamp.Before(start) {
			start = obs[i].Timestamp
		}
	}
	return start
}
