// Package pipeline implements the batch cleaning path for raw station
// observations: parse and validate, null outliers, collapse to daily
// series, fill gaps by trend regression, and join station metadata.
// Every stage is a pure transformation over immutable table values; the
// Pipeline type only adds orchestration, logging and metrics on top.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
	"github.com/oysteike/miljodataAnalyse/internal/observability"
)

// Pipeline runs the cleaning, aggregation, imputation and metadata join
// stages as one batch pass over an in-memory table.
type Pipeline struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	threshold float64
	policies  domain.PolicyMap
}

// Result is the cleaned daily table plus processing bookkeeping.
type Result struct {
	Observations []domain.Observation
	Clean        CleanReport
	Impute       ImputeReport
	ProcessedAt  time.Time
}

// New creates a Pipeline with the given observability and cleaning
// parameters.
func New(logger *slog.Logger, metrics *observability.Metrics, threshold float64, policies domain.PolicyMap) *Pipeline {
	return &Pipeline{
		logger:    logger,
		metrics:   metrics,
		threshold: threshold,
		policies:  policies,
	}
}

// Run executes clean, aggregate, impute and join over one batch. All
// I/O happens outside; Run only transforms tables it was handed.
func (p *Pipeline) Run(records []domain.RawRecord, stations []domain.StationMetadata) Result {
	stageStart := clock.Now()
	obs, cleanReport := Clean(records, p.threshold)
	p.metrics.RowsIngested.Add(float64(cleanReport.Rows))
	p.metrics.RowsDroppedBadTimestamp.Add(float64(cleanReport.DroppedBadTime))
	p.metrics.ValuesCoercedMissing.Add(float64(cleanReport.CoercedMissing))
	p.metrics.OutliersNulled.Add(float64(cleanReport.OutliersNulled))
	p.observeStage("clean", stageStart)
	p.logger.Info("cleaned raw records",
		"rows", cleanReport.Rows,
		"dropped_bad_timestamp", cleanReport.DroppedBadTime,
		"coerced_missing", cleanReport.CoercedMissing,
		"outliers_nulled", cleanReport.OutliersNulled,
	)

	stageStart = clock.Now()
	obs = Aggregate(obs, p.policies)
	p.observeStage("aggregate", stageStart)
	p.logger.Info("aggregated to daily series", "rows", len(obs))

	stageStart = clock.Now()
	obs, imputeReport := Impute(obs)
	p.metrics.ValuesImputed.Add(float64(imputeReport.Filled))
	p.metrics.SeriesUnimputed.Add(float64(len(imputeReport.Unimputed)))
	p.observeStage("impute", stageStart)
	for _, k := range imputeReport.Unimputed {
		p.logger.Warn("series left unimputed, too few known values",
			"station", k.Station, "datatype", k.Datatype)
	}
	p.logger.Info("imputed missing values",
		"filled", imputeReport.Filled,
		"unimputed_series", len(imputeReport.Unimputed),
	)

	stageStart = clock.Now()
	obs = JoinStations(obs, stations)
	p.observeStage("join", stageStart)

	return Result{
		Observations: obs,
		Clean:        cleanReport,
		Impute:       imputeReport,
		ProcessedAt:  clock.Now(),
	}
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(clock.Since(start).Seconds())
}
