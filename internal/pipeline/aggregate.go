package pipeline

import (
	"slices"
	"time"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// Aggregate collapses sub-daily readings into one row per
// (station, datatype, UTC calendar day) under the per-datatype policy
// map, and densifies interior gaps: every day between a series' first
// and last observation gets a row, absent days as explicit missing
// markers. Running it again on its own output changes nothing.
func Aggregate(obs []domain.Observation, policies domain.PolicyMap) []domain.Observation {
	readings := make([]domain.Observation, len(obs))
	copy(readings, obs)
	sortObservations(readings)

	type series struct {
		key      domain.SeriesKey
		first    domain.Observation
		days     map[time.Time][]domain.Observation
		min, max time.Time
	}
	var order []domain.SeriesKey
	groups := make(map[domain.SeriesKey]*series)
	for _, o := range readings {
		k := domain.SeriesKey{Station: o.Station, Datatype: o.Datatype}
		g, ok := groups[k]
		if !ok {
			g = &series{key: k, first: o, days: make(map[time.Time][]domain.Observation)}
			groups[k] = g
			order = append(order, k)
		}
		day := o.Timestamp.UTC().Truncate(24 * time.Hour)
		if len(g.days) == 0 || day.Before(g.min) {
			g.min = day
		}
		if len(g.days) == 0 || day.After(g.max) {
			g.max = day
		}
		g.days[day] = append(g.days[day], o)
	}

	var out []domain.Observation
	for _, k := range order {
		g := groups[k]
		for day := g.min; !day.After(g.max); day = day.AddDate(0, 0, 1) {
			dayReadings, ok := g.days[day]
			if !ok {
				gap := g.first
				gap.Timestamp = day
				gap.Value = 0
				gap.Missing = true
				out = append(out, gap)
				continue
			}
			out = append(out, aggregateDay(day, dayReadings, policies.PolicyFor(k.Datatype)))
		}
	}
	return out
}

// aggregateDay reduces one day's readings to a single row. Missing
// readings never contribute; a day whose readings are all missing stays
// an explicit missing marker for the imputer.
func aggregateDay(day time.Time, readings []domain.Observation, policy domain.AggregationPolicy) domain.Observation {
	row := readings[0]
	row.Timestamp = day
	row.Value = 0
	row.Missing = true

	switch policy {
	case domain.PolicySum:
		for _, r := range readings {
			if r.Missing {
				continue
			}
			row.Value += r.Value
			row.Missing = false
		}
	default:
		// Readings are time-sorted, so the last known one wins.
		for i := len(readings) - 1; i >= 0; i-- {
			if !readings[i].Missing {
				row.Value = readings[i].Value
				row.Missing = false
				break
			}
		}
	}
	return row
}

// SliceDay returns the rows of one datatype on one UTC calendar day.
func SliceDay(obs []domain.Observation, datatype string, day time.Time) []domain.Observation {
	day = day.UTC().Truncate(24 * time.Hour)
	var out []domain.Observation
	for _, o := range obs {
		if o.Datatype == datatype && o.Timestamp.UTC().Truncate(24*time.Hour).Equal(day) {
			out = append(out, o)
		}
	}
	return out
}

// Series returns the daily series of one (station, datatype) pair in
// time order.
func Series(obs []domain.Observation, station, datatype string) []domain.Observation {
	var out []domain.Observation
	for _, o := range obs {
		if o.Station == station && o.Datatype == datatype {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Observation) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}
