// Package pipeline orchestrates the daily early-warning cycle: risk
// scoring per region, alert generation above the high-risk threshold,
// and short-horizon forecasting. Every stage reads and writes through
// identity keys, so reruns for the same (region, date, disease) replace
// or no-op instead of duplicating.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/epiwatch/epiwatch-api/climate"
	"github.com/epiwatch/epiwatch-api/forecast"
	"github.com/epiwatch/epiwatch-api/schema"
	"github.com/epiwatch/epiwatch-api/score"
	"github.com/epiwatch/epiwatch-api/store"
)

const logPrefix = "pipeline"

// Config bounds the pipeline stages.
type Config struct {
	// RiskWindowDays is the trailing window the scorer reads.
	RiskWindowDays int
	// MinObservations is the least records a window needs before a real
	// score is computed; below it the sentinel score is written.
	MinObservations int
	// Thresholds gate which sub-indicators are reported as drivers.
	Thresholds score.Thresholds
	// HighRiskThreshold is the adjusted score at or above which alerts
	// are generated.
	HighRiskThreshold float64
	// CriticalThreshold escalates an alert's level above HIGH.
	CriticalThreshold float64
	// ForecastLookback is how many trailing days of history feed the
	// forecaster.
	ForecastLookback int
	// Climate carries the seasonal multiplier tables.
	Climate climate.Config
	// Forecast bounds forecast generation itself.
	Forecast forecast.Config
	// Workers caps concurrent per-region work within a stage.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		RiskWindowDays:    7,
		MinObservations:   2,
		Thresholds:        score.DefaultThresholds(),
		HighRiskThreshold: 0.7,
		CriticalThreshold: 0.85,
		ForecastLookback:  60,
		Climate:           climate.DefaultConfig(),
		Forecast:          forecast.DefaultConfig(),
		Workers:           8,
	}
}

// Pipeline runs the scoring, alerting and forecasting stages against an
// EpidemicStore.
type Pipeline struct {
	store    store.EpidemicStore
	cfg      Config
	registry map[string]schema.DiseaseProfile
	notifier Notifier
}

// New builds a pipeline. The notifier may be nil, in which case alerts
// are persisted but not pushed anywhere.
func New(s store.EpidemicStore, cfg Config, registry map[string]schema.DiseaseProfile, notifier Notifier) *Pipeline {
	if registry == nil {
		registry = schema.DefaultDiseaseRegistry()
	}
	return &Pipeline{
		store:    s,
		cfg:      cfg,
		registry: registry,
		notifier: notifier,
	}
}

// RunSummary reports what one pipeline run produced.
type RunSummary struct {
	RunID           string        `json:"run_id"`
	Diseases        []string      `json:"diseases"`
	Date            string        `json:"date"`
	ScoredRegions   int           `json:"scored_regions"`
	Alerts          int           `json:"alerts"`
	ForecastRegions int           `json:"forecast_regions"`
	Elapsed         time.Duration `json:"elapsed"`
}

// Run executes the full cycle for one disease, or for every disease in
// the registry when disease is empty. An empty asOf anchors each disease
// on its own latest ingested date. Per-region failures are logged and
// skipped; a disease with no case data at all is skipped too.
func (p *Pipeline) Run(disease, asOf string, horizon int) (*RunSummary, error) {
	started := time.Now()
	summary := &RunSummary{
		RunID: uuid.NewString(),
		Date:  asOf,
	}

	diseases := []string{disease}
	if disease == "" {
		diseases = diseases[:0]
		for id := range p.registry {
			diseases = append(diseases, id)
		}
	}

	for _, d := range diseases {
		date := asOf
		if date == "" {
			latest, err := p.store.LatestCaseDate(d)
			if err != nil {
				log.WithFields(log.Fields{
					"prefix": logPrefix, "disease": d,
				}).Warn("no case data, skipping disease")
				continue
			}
			date = latest
		}

		scored, err := p.ComputeRiskScores(d, date, summary.RunID)
		if err != nil {
			return nil, err
		}
		alerts, err := p.GenerateAlerts(d, date, summary.RunID)
		if err != nil {
			return nil, err
		}
		forecasted, err := p.GenerateForecasts(d, date, horizon, summary.RunID)
		if err != nil {
			return nil, err
		}

		summary.Diseases = append(summary.Diseases, d)
		summary.ScoredRegions += scored
		summary.Alerts += alerts
		summary.ForecastRegions += forecasted
		if summary.Date == "" {
			summary.Date = date
		}
	}

	summary.Elapsed = time.Since(started)
	log.WithFields(log.Fields{
		"prefix":   logPrefix,
		"run_id":   summary.RunID,
		"diseases": summary.Diseases,
		"scored":   summary.ScoredRegions,
		"alerts":   summary.Alerts,
		"elapsed":  summary.Elapsed,
	}).Info("pipeline run finished")

	return summary, nil
}

// addDays shifts an ISO date by n days.
func addDays(date string, n int) string {
	day, err := time.Parse(schema.DateLayout, date)
	if err != nil {
		return date
	}
	return day.AddDate(0, 0, n).Format(schema.DateLayout)
}
