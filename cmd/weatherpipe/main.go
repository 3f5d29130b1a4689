// Command weatherpipe runs the observation cleaning pipeline over a raw
// CSV export and writes the cleaned daily table, an optional heatmap
// grid, and an optional seasonal forecast as CSV files. All fetching,
// scheduling and rendering stays outside; this binary only moves tables
// through the core.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oysteike/miljodataAnalyse/internal/adapter/csvio"
	"github.com/oysteike/miljodataAnalyse/internal/config"
	"github.com/oysteike/miljodataAnalyse/internal/domain"
	"github.com/oysteike/miljodataAnalyse/internal/forecast"
	"github.com/oysteike/miljodataAnalyse/internal/interp"
	"github.com/oysteike/miljodataAnalyse/internal/observability"
	"github.com/oysteike/miljodataAnalyse/internal/pipeline"
)

type options struct {
	inputPath    string
	stationsPath string
	outDir       string

	heatmapDatatype string
	heatmapDay      string

	forecastStation  string
	forecastDatatype string
}

func main() {
	var opts options
	flag.StringVar(&opts.inputPath, "input", "", "raw observations CSV (headerless positional export)")
	flag.StringVar(&opts.stationsPath, "stations", "", "station metadata CSV (source_id,station_name,lon,lat)")
	flag.StringVar(&opts.outDir, "out", ".", "output directory")
	flag.StringVar(&opts.heatmapDatatype, "heatmap-datatype", "", "datatype tag to interpolate onto a grid")
	flag.StringVar(&opts.heatmapDay, "heatmap-day", "", "day to interpolate, YYYY-MM-DD")
	flag.StringVar(&opts.forecastStation, "forecast-station", "", "station ID to forecast")
	flag.StringVar(&opts.forecastDatatype, "forecast-datatype", "", "datatype tag to forecast")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if opts.inputPath == "" {
		logger.Error("missing required -input flag")
		os.Exit(1)
	}

	if err := run(opts, cfg, logger); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	records, err := readRecords(opts.inputPath)
	if err != nil {
		return err
	}
	stations, err := readStations(opts.stationsPath)
	if err != nil {
		return err
	}

	p := pipeline.New(logger, metrics, cfg.ZScoreThreshold, cfg.Policies)
	result := p.Run(records, stations)

	if err := writeFile(filepath.Join(opts.outDir, "cleaned.csv"), func(f *os.File) error {
		return csvio.WriteObservations(f, result.Observations)
	}); err != nil {
		return err
	}

	if opts.heatmapDatatype != "" {
		if err := writeHeatmap(opts, cfg, logger, metrics, result.Observations); err != nil {
			return err
		}
	}
	if opts.forecastStation != "" {
		if err := writeForecast(opts, cfg, logger, result.Observations); err != nil {
			return err
		}
	}

	logger.Info("run complete", "out_dir", opts.outDir, "rows", len(result.Observations))
	return nil
}

func writeHeatmap(opts options, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, obs []domain.Observation) error {
	day, err := time.Parse("2006-01-02", opts.heatmapDay)
	if err != nil {
		return &domain.ConfigurationError{Param: "heatmap-day", Value: opts.heatmapDay, Reason: "must be YYYY-MM-DD"}
	}

	slice := pipeline.SliceDay(obs, opts.heatmapDatatype, day)
	gridCfg := interp.Config{Resolution: cfg.GridResolution, CutoffRadiusKM: cfg.CutoffRadiusKM}
	points, err := interp.BuildGrid(slice, gridCfg)
	if err != nil {
		return err
	}
	metrics.GridPointsKept.Add(float64(len(points)))
	metrics.GridPointsMasked.Add(float64(cfg.GridResolution*cfg.GridResolution - len(points)))
	if len(points) == 0 {
		logger.Warn("no interpolation possible for slice",
			"datatype", opts.heatmapDatatype, "day", opts.heatmapDay, "stations", len(slice))
	}

	return writeFile(filepath.Join(opts.outDir, "grid.csv"), func(f *os.File) error {
		return csvio.WriteGrid(f, points)
	})
}

func writeForecast(opts options, cfg *config.Config, logger *slog.Logger, obs []domain.Observation) error {
	series := pipeline.Series(obs, opts.forecastStation, opts.forecastDatatype)
	result, err := forecast.Forecast(series, forecast.Config{
		Frequency: cfg.ForecastFrequency,
		Horizon:   cfg.ForecastHorizon,
	})
	if err != nil {
		return fmt.Errorf("forecast %s/%s: %w", opts.forecastStation, opts.forecastDatatype, err)
	}
	logger.Info("fitted seasonal model",
		"station", opts.forecastStation,
		"datatype", opts.forecastDatatype,
		"periods", len(result.Historical),
		"horizon", len(result.Forecast),
	)

	if err := writeFile(filepath.Join(opts.outDir, "forecast.csv"), func(f *os.File) error {
		return csvio.WriteForecast(f, result.Forecast)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(opts.outDir, "historical.csv"), func(f *os.File) error {
		return csvio.WriteHistorical(f, result.Historical)
	})
}

func readRecords(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer f.Close()
	return csvio.ReadRawRecords(f)
}

func readStations(path string) ([]domain.StationMetadata, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station metadata: %w", err)
	}
	defer f.Close()
	return csvio.ReadStationMetadata(f)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
