package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epiwatch/epiwatch-api/schema"
)

func dengueProfile() schema.DiseaseProfile {
	return schema.ProfileOrDefault(schema.DefaultDiseaseRegistry(), "DENGUE")
}

func makeWindow(regionID, disease string, confirmed, deaths []int) []schema.CaseRecord {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}
	window := make([]schema.CaseRecord, len(confirmed))
	for i := range confirmed {
		window[i] = schema.CaseRecord{
			RegionID:  regionID,
			Date:      dates[i],
			Disease:   disease,
			Confirmed: confirmed[i],
			Deaths:    deaths[i],
		}
	}
	return window
}

func TestCalculateRiskScoreStrongGrowth(t *testing.T) {
	window := makeWindow("IN-MH", "DENGUE", []int{100, 120, 150, 200, 260}, []int{1, 1, 2, 2, 3})

	metrics := CalculateIndicators(window, dengueProfile())
	assert.Equal(t, 5, metrics.WindowSize)
	assert.InDelta(t, 1.6, metrics.GrowthRate, 1e-9)
	assert.InDelta(t, 0.389475, metrics.Volatility, 1e-6)
	assert.InDelta(t, 3.0/260.0, metrics.DeathRatio, 1e-9)

	composite, drivers := CalculateRiskScore(metrics, DefaultThresholds())
	assert.InDelta(t, 0.902430, composite, 1e-6)
	assert.Equal(t, schema.RiskLevelHigh, schema.RiskLevelForScore(composite))

	// growth is the top contributor
	assert.Len(t, drivers, 2)
	assert.Equal(t, schema.DriverGrowth, drivers[0].Name)
	assert.InDelta(t, 0.65, drivers[0].Contribution, 1e-9)
	assert.Equal(t, schema.DriverVolatility, drivers[1].Name)
}

func TestCalculateRiskScoreFlatSeries(t *testing.T) {
	window := makeWindow("IN-KA", "DENGUE", []int{50, 50, 50, 50, 50}, []int{0, 0, 0, 0, 0})

	metrics := CalculateIndicators(window, dengueProfile())
	assert.Equal(t, 0.0, metrics.GrowthRate)
	assert.Equal(t, 0.0, metrics.Volatility)
	assert.Equal(t, 0.0, metrics.DeathRatio)

	composite, drivers := CalculateRiskScore(metrics, DefaultThresholds())
	assert.Equal(t, 0.0, composite)
	assert.Empty(t, drivers)
	assert.Equal(t, schema.RiskLevelLow, schema.RiskLevelForScore(composite))
}

func TestCalculateRiskScoreBounded(t *testing.T) {
	// extreme inputs: every sub-indicator saturates at its clip
	window := makeWindow("IN-TN", "DENGUE", []int{1, 1000, 1, 1000, 10000}, []int{0, 100, 200, 500, 9000})

	metrics := CalculateIndicators(window, dengueProfile())
	composite, _ := CalculateRiskScore(metrics, DefaultThresholds())
	assert.LessOrEqual(t, composite, 1.0)
	assert.GreaterOrEqual(t, composite, 0.0)
	assert.InDelta(t, 1.0, composite, 1e-9)
}

func TestCalculateIndicatorsCumulativeSemantics(t *testing.T) {
	registry := schema.DefaultDiseaseRegistry()
	covid := schema.ProfileOrDefault(registry, "COVID")
	window := makeWindow("IN-MH", "COVID", []int{100, 120, 150, 200, 260}, []int{1, 1, 2, 2, 3})

	metrics := CalculateIndicators(window, covid)
	// volatility over the daily deltas [20 30 50 60], not the totals
	assert.InDelta(t, 0.456435, metrics.Volatility, 1e-6)
	assert.InDelta(t, 1.6, metrics.GrowthRate, 1e-9)
}

func TestCalculateIndicatorsSmallWindow(t *testing.T) {
	window := makeWindow("IN-GA", "DENGUE", []int{40}, []int{1})[:1]

	metrics := CalculateIndicators(window, dengueProfile())
	assert.Equal(t, 1, metrics.WindowSize)
	assert.Equal(t, 0.0, metrics.GrowthRate)
	assert.Equal(t, 0.0, metrics.Volatility)

	metrics = CalculateIndicators(nil, dengueProfile())
	assert.Equal(t, 0, metrics.WindowSize)
}

func TestDeathRatioFloorOnSparseData(t *testing.T) {
	window := makeWindow("IN-GA", "DENGUE", []int{0, 0, 0, 0, 0}, []int{0, 0, 0, 0, 2})

	metrics := CalculateIndicators(window, dengueProfile())
	// zero confirmed: ratio uses the floor, never divides by zero
	assert.InDelta(t, 2.0, metrics.DeathRatio, 1e-9)

	composite, _ := CalculateRiskScore(metrics, DefaultThresholds())
	assert.LessOrEqual(t, composite, 1.0)
}

func TestClip01(t *testing.T) {
	assert.Equal(t, 0.0, Clip01(-0.5))
	assert.Equal(t, 0.25, Clip01(0.25))
	assert.Equal(t, 1.0, Clip01(1.7))
}
