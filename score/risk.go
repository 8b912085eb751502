package score

import (
	"math"
	"sort"

	"github.com/epiwatch/epiwatch-api/schema"
)

// Composite weights. Each sub-indicator is squashed into [0,1] before
// weighting so the weights stay comparable across diseases with very
// different case-count magnitudes.
const (
	weightGrowth     = 0.65
	weightVolatility = 0.25
	weightDeathRatio = 0.10

	volatilityScale = 2.0
	deathRatioScale = 50.0
)

// Thresholds are the per-indicator significance cutoffs above which a
// sub-indicator is reported as a named risk driver.
type Thresholds struct {
	Growth     float64
	Volatility float64
	DeathRatio float64
}

// DefaultThresholds mirrors the operational defaults: a 30% window growth,
// a 0.15 coefficient of variation, a 2% death ratio.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Growth:     0.30,
		Volatility: 0.15,
		DeathRatio: 0.02,
	}
}

// Clip01 clamps a value into [0, 1].
func Clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// CalculateIndicators derives the raw sub-indicators from an ascending
// case window. Volatility is measured over daily deltas when the disease
// reports cumulative totals, over the daily counts otherwise. The window
// may contain gaps; indicators are computed over the observed records.
func CalculateIndicators(window []schema.CaseRecord, profile schema.DiseaseProfile) schema.WindowMetrics {
	metrics := schema.WindowMetrics{WindowSize: len(window)}
	if len(window) == 0 {
		return metrics
	}

	confirmed := make([]float64, len(window))
	for i, r := range window {
		confirmed[i] = float64(r.Confirmed)
	}

	first := window[0]
	last := window[len(window)-1]
	metrics.TodayConfirmed = last.Confirmed
	metrics.PastConfirmed = first.Confirmed
	metrics.TodayDeaths = last.Deaths

	metrics.GrowthRate = (confirmed[len(confirmed)-1] - confirmed[0]) / math.Max(confirmed[0], 1)
	metrics.DeathRatio = float64(last.Deaths) / math.Max(confirmed[len(confirmed)-1], 1)

	series := confirmed
	if profile.Semantics == schema.CountCumulative {
		series = dailyDeltas(confirmed)
	}
	metrics.Volatility = coefficientOfVariation(series)

	return metrics
}

// CalculateRiskScore combines the sub-indicators into the composite score
// and names the drivers that pushed it up, ordered by their weighted
// contribution. The score is bounded in [0,1] by construction.
func CalculateRiskScore(metrics schema.WindowMetrics, thresholds Thresholds) (float64, []schema.Driver) {
	growthPart := weightGrowth * Clip01(metrics.GrowthRate)
	volatilityPart := weightVolatility * Clip01(metrics.Volatility*volatilityScale)
	deathPart := weightDeathRatio * Clip01(metrics.DeathRatio*deathRatioScale)

	composite := growthPart + volatilityPart + deathPart

	drivers := []schema.Driver{}
	if metrics.GrowthRate >= thresholds.Growth {
		drivers = append(drivers, schema.Driver{Name: schema.DriverGrowth, Contribution: growthPart})
	}
	if metrics.Volatility >= thresholds.Volatility {
		drivers = append(drivers, schema.Driver{Name: schema.DriverVolatility, Contribution: volatilityPart})
	}
	if metrics.DeathRatio >= thresholds.DeathRatio {
		drivers = append(drivers, schema.Driver{Name: schema.DriverDeathRatio, Contribution: deathPart})
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].Contribution > drivers[j].Contribution
	})

	return composite, drivers
}

func dailyDeltas(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	deltas := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		deltas[i-1] = series[i] - series[i-1]
	}
	return deltas
}

// coefficientOfVariation is stdev/mean with a floor on the mean to avoid
// division by zero on sparse data.
func coefficientOfVariation(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	mean := float64(0)
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	variance := float64(0)
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(series) - 1)

	return math.Sqrt(variance) / math.Max(mean, 1)
}
