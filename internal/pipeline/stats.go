package pipeline

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// Summary holds descriptive statistics over a time window.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
}

// Summarize computes mean, median and population standard deviation of
// the known values with timestamps in [from, to]. An empty window wraps
// domain.ErrInsufficientData.
func Summarize(obs []domain.Observation, from, to time.Time) (Summary, error) {
	var values []float64
	for _, o := range obs {
		if o.Missing || o.Timestamp.Before(from) || o.Timestamp.After(to) {
			continue
		}
		values = append(values, o.Value)
	}
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("summarize %s to %s: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), domain.ErrInsufficientData)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mean := stat.Mean(values, nil)
	return Summary{
		Count:  len(values),
		Mean:   mean,
		Median: median(sorted),
		StdDev: popStdDev(values, mean),
	}, nil
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// popStdDev is the population (ddof=0) standard deviation, matching the
// z-score convention of the upstream feed's tooling.
func popStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
