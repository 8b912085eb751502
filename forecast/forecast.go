// Package forecast produces short-horizon daily case forecasts from a
// region's case history. Two models are available: a trailing-mean
// baseline ("naive") and an autoregressive model ("ar"). The AR model is
// attempted only when the history is long and clean enough; on any fit
// failure the generator falls back to the baseline rather than erroring.
package forecast

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/epiwatch/epiwatch-api/schema"
)

var (
	ErrInvalidHorizon = fmt.Errorf("forecast horizon out of range")
	ErrModelFit       = fmt.Errorf("model could not be fit to the series")
)

// Config bounds forecast generation.
type Config struct {
	// MaxHorizonDays caps how far ahead a forecast may reach.
	MaxHorizonDays int
	// MinModelObservations is the least history the AR model will accept.
	MinModelObservations int
	// MaxGapFraction is the largest tolerated share of missing days in
	// the history before the AR model is skipped.
	MaxGapFraction float64
	// ConfidenceZ is the z-value for the prediction interval.
	ConfidenceZ float64
}

// DefaultConfig returns the standard generation bounds: 30-day horizon
// cap, 10-observation AR minimum, 95% intervals.
func DefaultConfig() Config {
	return Config{
		MaxHorizonDays:       30,
		MinModelObservations: 10,
		MaxGapFraction:       0.2,
		ConfidenceZ:          1.96,
	}
}

// Prediction is one forecast step. Horizon counts days ahead of the
// anchor date, starting at 1.
type Prediction struct {
	Horizon int
	Mean    float64
	Lower   float64
	Upper   float64
}

// Result carries the predictions together with the model that produced
// them.
type Result struct {
	Model       string
	Predictions []Prediction
}

// Generate forecasts the next horizon days of confirmed counts from an
// ascending daily history. The AR model is used when the history
// qualifies; otherwise, and on any fit failure, the trailing-mean
// baseline is used. Interval widths grow with sqrt(horizon) and lower
// bounds are floored at zero.
func Generate(history []schema.CaseRecord, horizon int, cfg Config) (*Result, error) {
	if horizon < 1 || horizon > cfg.MaxHorizonDays {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidHorizon, horizon, cfg.MaxHorizonDays)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: empty history", ErrModelFit)
	}

	series := make([]float64, len(history))
	for i, r := range history {
		series[i] = float64(r.Confirmed)
	}

	model := schema.ForecastModelNaive
	predict, sigma := naiveModel(series)

	if arEligible(history, series, cfg) {
		ar, err := fitAR(series)
		if err != nil {
			log.WithFields(log.Fields{
				"prefix": "forecast", "error": err,
			}).Info("ar fit failed, falling back to naive")
		} else {
			model = schema.ForecastModelAR
			predict, sigma = ar.predictor(series, horizon)
		}
	}

	result := &Result{Model: model, Predictions: make([]Prediction, 0, horizon)}
	for h := 1; h <= horizon; h++ {
		m := math.Max(0, predict(h))
		spread := cfg.ConfidenceZ * sigma * math.Sqrt(float64(h))
		// The band is truncated at zero by shifting, not clipping: the
		// full 2*spread width is kept above the floor, so interval width
		// stays non-decreasing in the horizon even when the mean path
		// declines through zero.
		lower := math.Max(0, m-spread)
		result.Predictions = append(result.Predictions, Prediction{
			Horizon: h,
			Mean:    m,
			Lower:   lower,
			Upper:   lower + 2*spread,
		})
	}
	return result, nil
}

// arEligible gates the AR model: enough observations, some variance to
// explain, and a history without large gaps.
func arEligible(history []schema.CaseRecord, series []float64, cfg Config) bool {
	if len(series) < cfg.MinModelObservations {
		return false
	}
	if variance(series) == 0 {
		return false
	}
	return gapFraction(history) <= cfg.MaxGapFraction
}

// gapFraction measures how sparse the history is relative to the span of
// its dates.
func gapFraction(history []schema.CaseRecord) float64 {
	if len(history) < 2 {
		return 0
	}
	span := daysBetween(history[0].Date, history[len(history)-1].Date)
	if span <= 0 {
		return 0
	}
	expected := span + 1
	missing := expected - len(history)
	if missing < 0 {
		missing = 0
	}
	return float64(missing) / float64(expected)
}

func daysBetween(from, to string) int {
	a, erra := parseDate(from)
	b, errb := parseDate(to)
	if erra != nil || errb != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

func variance(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	m := mean(series)
	var ss float64
	for _, v := range series {
		d := v - m
		ss += d * d
	}
	return ss / float64(len(series)-1)
}
