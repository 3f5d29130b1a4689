// Package observability provides the logger and Prometheus metric set
// shared by the pipeline stages.
package observability

import "github.com/prometheus/client_golang/prometheus"

const namespace = "weather_pipeline"

// Metrics holds the Prometheus counters and histograms for one process.
type Metrics struct {
	RowsIngested            prometheus.Counter
	RowsDroppedBadTimestamp prometheus.Counter
	ValuesCoercedMissing    prometheus.Counter
	OutliersNulled          prometheus.Counter
	ValuesImputed           prometheus.Counter
	SeriesUnimputed         prometheus.Counter
	GridPointsKept          prometheus.Counter
	GridPointsMasked        prometheus.Counter
	StageDuration           *prometheus.HistogramVec // label: stage
}

// NewMetrics creates and registers all pipeline metrics with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsIngested,
		m.RowsDroppedBadTimestamp,
		m.ValuesCoercedMissing,
		m.OutliersNulled,
		m.ValuesImputed,
		m.SeriesUnimputed,
		m.GridPointsKept,
		m.GridPointsMasked,
		m.StageDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// parallel tests do not trip "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Raw observation rows handed to the cleaner.",
		}),
		RowsDroppedBadTimestamp: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_bad_timestamp_total",
			Help:      "Rows dropped because the reference timestamp did not parse.",
		}),
		ValuesCoercedMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_coerced_missing_total",
			Help:      "Values kept as missing markers because they did not parse.",
		}),
		OutliersNulled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outliers_nulled_total",
			Help:      "Values converted to missing by z-score outlier rejection.",
		}),
		ValuesImputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_imputed_total",
			Help:      "Missing daily values filled by trend regression.",
		}),
		SeriesUnimputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_unimputed_total",
			Help:      "Series left with gaps because too few known values exist.",
		}),
		GridPointsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_points_kept_total",
			Help:      "Interpolated mesh points surviving the distance cutoff.",
		}),
		GridPointsMasked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grid_points_masked_total",
			Help:      "Mesh points discarded by hull or distance masking.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of one pipeline stage over one batch.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"stage"}),
	}
}
