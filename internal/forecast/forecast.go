// Package forecast fits a seasonal-harmonic linear model to one
// station's daily series and extrapolates a short horizon.
//
// The series is resampled to monthly or weekly periods by averaging,
// then modeled as
//
//	value ~ intercept + trend·t + a·sin(2π·season/L) + b·cos(2π·season/L)
//
// where t is seconds since the first period, season is the calendar
// month or ISO week number, and L is 12 or 52. The harmonic pair lets
// one linear model carry a repeating annual cycle without a coefficient
// per calendar bucket. Trend-only gap filling lives in the cleaning
// pipeline; seasonality is modeled here and only here.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
)

// Frequency selects the resampling period.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
)

// ParseFrequency validates a frequency string.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case Monthly, Weekly:
		return f, nil
	default:
		return "", &domain.ConfigurationError{
			Param:  "forecast frequency",
			Value:  s,
			Reason: `must be "monthly" or "weekly"`,
		}
	}
}

// periodLength is the number of seasons in a year for the frequency.
func (f Frequency) periodLength() float64 {
	if f == Weekly {
		return 52
	}
	return 12
}

// Config controls one forecast run.
type Config struct {
	Frequency Frequency
	Horizon   int // number of future periods to predict
}

// Point is one forecast row.
type Point struct {
	Timestamp time.Time
	Predicted float64
}

// HistoricalPoint is one resampled period used for fitting.
type HistoricalPoint struct {
	Timestamp time.Time
	Value     float64
}

// Model holds the fitted coefficients, tied to one series and one
// resampling frequency.
type Model struct {
	Intercept float64
	Trend     float64
	SeasonSin float64
	SeasonCos float64

	frequency Frequency
	start     time.Time
}

// Result bundles the forecast with the historical table it was fitted
// on.
type Result struct {
	Forecast   []Point
	Historical []HistoricalPoint
	Model      Model
}

// Forecast resamples one (station, datatype) series to the requested
// frequency, fits the seasonal model, and predicts cfg.Horizon future
// periods starting immediately after the last observed one.
//
// Unsupported frequencies and non-positive horizons are
// *domain.ConfigurationError. A series with fewer resampled periods
// than model coefficients wraps domain.ErrInsufficientData.
func Forecast(series []domain.Observation, cfg Config) (Result, error) {
	freq, err := ParseFrequency(string(cfg.Frequency))
	if err != nil {
		return Result{}, err
	}
	if cfg.Horizon < 1 {
		return Result{}, &domain.ConfigurationError{
			Param:  "forecast horizon",
			Value:  strconv.Itoa(cfg.Horizon),
			Reason: "must be at least 1",
		}
	}

	hist := resample(series, freq)
	if len(hist) == 0 {
		return Result{}, fmt.Errorf("resample to %s periods: %w", freq, domain.ErrInsufficientData)
	}
	model, err := fit(hist, freq)
	if err != nil {
		return Result{}, err
	}

	points := make([]Point, 0, cfg.Horizon)
	period := hist[len(hist)-1].Timestamp
	for i := 0; i < cfg.Horizon; i++ {
		period = nextPeriod(period, freq)
		points = append(points, Point{Timestamp: period, Predicted: model.Predict(period)})
	}
	return Result{Forecast: points, Historical: hist, Model: model}, nil
}

// Predict evaluates the model at a period start.
func (m Model) Predict(period time.Time) float64 {
	sin, cos := harmonics(period, m.frequency)
	t := period.Sub(m.start).Seconds()
	return m.Intercept + m.Trend*t + m.SeasonSin*sin + m.SeasonCos*cos
}

// resample averages the known values of each period and drops periods
// with no data, ordered by period start.
func resample(series []domain.Observation, freq Frequency) []HistoricalPoint {
	type bucket struct {
		sum float64
		n   int
	}
	buckets := make(map[time.Time]*bucket)
	for _, o := range series {
		if o.Missing {
			continue
		}
		p := PeriodStart(o.Timestamp, freq)
		b, ok := buckets[p]
		if !ok {
			b = &bucket{}
			buckets[p] = b
		}
		b.sum += o.Value
		b.n++
	}
	out := make([]HistoricalPoint, 0, len(buckets))
	for p, b := range buckets {
		out = append(out, HistoricalPoint{Timestamp: p, Value: b.sum / float64(b.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// fit solves the least-squares problem over {1, t, sin, cos}. Fewer
// periods than coefficients leave the model underdetermined, which is
// rejected rather than silently producing a degenerate fit.
func fit(hist []HistoricalPoint, freq Frequency) (Model, error) {
	if len(hist) < 4 {
		return Model{}, fmt.Errorf("fit seasonal model on %d period(s): %w", len(hist), domain.ErrInsufficientData)
	}
	start := hist[0].Timestamp
	x := mat.NewDense(len(hist), 4, nil)
	y := mat.NewVecDense(len(hist), nil)
	for i, h := range hist {
		sin, cos := harmonics(h.Timestamp, freq)
		x.Set(i, 0, 1)
		x.Set(i, 1, h.Timestamp.Sub(start).Seconds())
		x.Set(i, 2, sin)
		x.Set(i, 3, cos)
		y.SetVec(i, h.Value)
	}
	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return Model{}, fmt.Errorf("fit seasonal model: %w", err)
	}
	return Model{
		Intercept: beta.AtVec(0),
		Trend:     beta.AtVec(1),
		SeasonSin: beta.AtVec(2),
		SeasonCos: beta.AtVec(3),
		frequency: freq,
		start:     start,
	}, nil
}

// PeriodStart truncates a timestamp to its period: the first of the
// month, or the ISO week's Monday, at UTC midnight.
func PeriodStart(t time.Time, freq Frequency) time.Time {
	t = t.UTC()
	if freq == Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

func nextPeriod(p time.Time, freq Frequency) time.Time {
	if freq == Monthly {
		return p.AddDate(0, 1, 0)
	}
	return p.AddDate(0, 0, 7)
}

// seasonIndex is the calendar month for monthly periods and the ISO
// week number for weekly periods.
func seasonIndex(p time.Time, freq Frequency) float64 {
	if freq == Monthly {
		return float64(int(p.Month()))
	}
	_, week := p.ISOWeek()
	return float64(week)
}

func harmonics(p time.Time, freq Frequency) (sin, cos float64) {
	angle := 2 * math.Pi * seasonIndex(p, freq) / freq.periodLength()
	return math.Sin(angle), math.Cos(angle)
}
