// Package config loads runtime configuration from the environment.
// Every key can be set as EPIWATCH_<KEY> with dots replaced by
// underscores, e.g. EPIWATCH_MONGO_CONN mongodb://127.0.0.1:27017.
package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type MongoConfig struct {
	ConnURI  string
	Database string
	Pool     uint64
}

type PipelineConfig struct {
	RiskWindowDays       int
	MinObservations      int
	GrowthThreshold      float64
	VolatilityThreshold  float64
	DeathRatioThreshold  float64
	HighRiskThreshold    float64
	CriticalThreshold    float64
	ForecastHorizon      int
	ForecastLookback     int
	MaxHorizonDays       int
	MinModelObservations int
	MaxGapFraction       float64
	ConfidenceZ          float64
	Workers              int
}

type Config struct {
	ListenAddr  string
	LogLevel    string
	TraceMode   bool
	Mongo       MongoConfig
	Pipeline    PipelineConfig
	// ClimateMultipliers overrides the default seasonal table per month
	// number, e.g. EPIWATCH_CLIMATE_MULTIPLIERS="7=1.6,8=1.6".
	ClimateMultipliers map[int]float64
	NotifierURL        string
}

// Load reads the environment into a Config, falling back to defaults
// that match a local development setup.
func Load() *Config {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("epiwatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("trace_mode", false)

	viper.SetDefault("mongo.conn", "mongodb://127.0.0.1:27017/?compressors=disabled")
	viper.SetDefault("mongo.database", "epiwatch")
	viper.SetDefault("mongo.pool", 16)

	viper.SetDefault("pipeline.risk_window_days", 7)
	viper.SetDefault("pipeline.min_observations", 2)
	viper.SetDefault("pipeline.growth_threshold", 0.30)
	viper.SetDefault("pipeline.volatility_threshold", 0.15)
	viper.SetDefault("pipeline.death_ratio_threshold", 0.02)
	viper.SetDefault("pipeline.high_risk_threshold", 0.7)
	viper.SetDefault("pipeline.critical_threshold", 0.85)
	viper.SetDefault("pipeline.forecast_horizon", 7)
	viper.SetDefault("pipeline.forecast_lookback", 60)
	viper.SetDefault("pipeline.max_horizon_days", 30)
	viper.SetDefault("pipeline.min_model_observations", 10)
	viper.SetDefault("pipeline.max_gap_fraction", 0.2)
	viper.SetDefault("pipeline.confidence_z", 1.96)
	viper.SetDefault("pipeline.workers", 8)

	viper.SetDefault("notifier.endpoint", "")
	viper.SetDefault("climate.multipliers", "")

	return &Config{
		ListenAddr: viper.GetString("listen_addr"),
		LogLevel:   viper.GetString("log.level"),
		TraceMode:  viper.GetBool("trace_mode"),
		Mongo: MongoConfig{
			ConnURI:  viper.GetString("mongo.conn"),
			Database: viper.GetString("mongo.database"),
			Pool:     viper.GetUint64("mongo.pool"),
		},
		Pipeline: PipelineConfig{
			RiskWindowDays:       viper.GetInt("pipeline.risk_window_days"),
			MinObservations:      viper.GetInt("pipeline.min_observations"),
			GrowthThreshold:      viper.GetFloat64("pipeline.growth_threshold"),
			VolatilityThreshold:  viper.GetFloat64("pipeline.volatility_threshold"),
			DeathRatioThreshold:  viper.GetFloat64("pipeline.death_ratio_threshold"),
			HighRiskThreshold:    viper.GetFloat64("pipeline.high_risk_threshold"),
			CriticalThreshold:    viper.GetFloat64("pipeline.critical_threshold"),
			ForecastHorizon:      viper.GetInt("pipeline.forecast_horizon"),
			ForecastLookback:     viper.GetInt("pipeline.forecast_lookback"),
			MaxHorizonDays:       viper.GetInt("pipeline.max_horizon_days"),
			MinModelObservations: viper.GetInt("pipeline.min_model_observations"),
			MaxGapFraction:       viper.GetFloat64("pipeline.max_gap_fraction"),
			ConfidenceZ:          viper.GetFloat64("pipeline.confidence_z"),
			Workers:              viper.GetInt("pipeline.workers"),
		},
		ClimateMultipliers: parseMultipliers(viper.GetString("climate.multipliers")),
		NotifierURL:        viper.GetString("notifier.endpoint"),
	}
}

// parseMultipliers reads "month=multiplier" pairs, comma separated.
// Malformed pairs are dropped rather than failing startup.
func parseMultipliers(raw string) map[int]float64 {
	overrides := map[int]float64{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		month, err := strconv.Atoi(parts[0])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || value < 0 {
			continue
		}
		overrides[month] = value
	}
	return overrides
}
