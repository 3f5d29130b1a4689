// Package config loads pipeline settings from environment variables.
// Invalid values are rejected as *domain.ConfigurationError, never
// silently defaulted.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/oysteike/miljodataAnalyse/internal/domain"
	"github.com/oysteike/miljodataAnalyse/internal/forecast"
)

// Config holds all pipeline settings.
type Config struct {
	LogLevel  string
	LogFormat string

	// ZScoreThreshold is the |z| at which a value becomes an outlier.
	ZScoreThreshold float64
	// Policies maps datatype tags to their daily aggregation policy.
	Policies domain.PolicyMap

	GridResolution int
	CutoffRadiusKM float64

	ForecastFrequency forecast.Frequency
	ForecastHorizon   int
}

// Load reads configuration from environment variables, applying
// defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}

	threshold, err := parsePositiveFloat("ZSCORE_THRESHOLD", "3")
	if err != nil {
		return nil, err
	}
	cfg.ZScoreThreshold = threshold

	res, err := parsePositiveInt("GRID_RESOLUTION", "200")
	if err != nil {
		return nil, err
	}
	cfg.GridResolution = res

	cutoff, err := parsePositiveFloat("CUTOFF_RADIUS_KM", "75")
	if err != nil {
		return nil, err
	}
	cfg.CutoffRadiusKM = cutoff

	freq, err := forecast.ParseFrequency(envOrDefault("FORECAST_FREQUENCY", string(forecast.Monthly)))
	if err != nil {
		return nil, err
	}
	cfg.ForecastFrequency = freq

	horizon, err := parsePositiveInt("FORECAST_HORIZON", "12")
	if err != nil {
		return nil, err
	}
	cfg.ForecastHorizon = horizon

	cfg.Policies = parsePolicies(envOrDefault("SUM_DATATYPES", "precipitation"))

	return cfg, nil
}

// parsePolicies builds the aggregation policy map from a comma-separated
// list of datatype substrings that aggregate by sum; everything else
// keeps the last reading of the day.
func parsePolicies(sumList string) domain.PolicyMap {
	m := domain.PolicyMap{Fallback: domain.PolicyLast}
	for _, s := range strings.Split(sumList, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		m.Rules = append(m.Rules, domain.PolicyRule{Substring: s, Policy: domain.PolicySum})
	}
	return m
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveInt(key, def string) (int, error) {
	raw := envOrDefault(key, def)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ConfigurationError{Param: key, Value: raw, Reason: "not an integer"}
	}
	if n <= 0 {
		return 0, &domain.ConfigurationError{Param: key, Value: raw, Reason: "must be positive"}
	}
	return n, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	raw := envOrDefault(key, def)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.ConfigurationError{Param: key, Value: raw, Reason: "not a number"}
	}
	if v <= 0 {
		return 0, &domain.ConfigurationError{Param: key, Value: raw, Reason: "must be positive"}
	}
	return v, nil
}
