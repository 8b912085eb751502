package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/epiwatch/epiwatch-api/schema"
)

func makeHistory(start string, stepDays int, counts []int) []schema.CaseRecord {
	day, _ := time.Parse(schema.DateLayout, start)
	history := make([]schema.CaseRecord, 0, len(counts))
	for _, c := range counts {
		history = append(history, schema.CaseRecord{
			RegionID:  "IN-MH",
			Disease:   "DENGUE",
			Date:      day.Format(schema.DateLayout),
			Confirmed: c,
		})
		day = day.AddDate(0, 0, stepDays)
	}
	return history
}

func TestGenerateRejectsBadHorizon(t *testing.T) {
	history := makeHistory("2024-01-01", 1, []int{10, 12, 14})
	cfg := DefaultConfig()

	_, err := Generate(history, 0, cfg)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = Generate(history, cfg.MaxHorizonDays+1, cfg)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestGenerateSinglePointFallsBackToNaive(t *testing.T) {
	history := makeHistory("2024-01-01", 1, []int{42})

	result, err := Generate(history, 3, DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, schema.ForecastModelNaive, result.Model)
	assert.Len(t, result.Predictions, 3)
	for _, p := range result.Predictions {
		assert.Equal(t, 42.0, p.Mean)
		assert.GreaterOrEqual(t, p.Lower, 0.0)
		assert.GreaterOrEqual(t, p.Upper, p.Mean)
	}
}

func TestGenerateIntervalWidthsGrow(t *testing.T) {
	history := makeHistory("2024-01-01", 1, []int{10, 12, 9, 14, 11, 13, 10, 8})

	result, err := Generate(history, 5, DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, schema.ForecastModelNaive, result.Model)

	prev := 0.0
	for _, p := range result.Predictions {
		width := p.Upper - p.Lower
		assert.Greater(t, width, prev)
		prev = width
	}
}

func TestGenerateIntervalWidthsGrowDecliningAR(t *testing.T) {
	// the mean path crosses zero within the horizon; the band must keep
	// widening rather than collapse against the floor
	counts := []int{203, 190, 172, 160, 141, 128, 110, 95, 83, 65, 50, 48}
	history := makeHistory("2024-01-01", 1, counts)

	result, err := Generate(history, 12, DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, schema.ForecastModelAR, result.Model)

	prev := 0.0
	for _, p := range result.Predictions {
		width := p.Upper - p.Lower
		assert.GreaterOrEqual(t, width, prev)
		assert.GreaterOrEqual(t, p.Lower, 0.0)
		assert.GreaterOrEqual(t, p.Mean, 0.0)
		prev = width
	}

	first := result.Predictions[0].Upper - result.Predictions[0].Lower
	last := result.Predictions[11].Upper - result.Predictions[11].Lower
	assert.Greater(t, last, first)
}

func TestGenerateRecoversAutoregression(t *testing.T) {
	// x_t = 2*x_{t-1} exactly; the least-squares fit recovers the
	// coefficient and the forecast continues the doubling.
	counts := []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048}
	history := makeHistory("2024-01-01", 1, counts)

	result, err := Generate(history, 2, DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, schema.ForecastModelAR, result.Model)
	assert.InDelta(t, 4096.0, result.Predictions[0].Mean, 1e-6)
	assert.InDelta(t, 8192.0, result.Predictions[1].Mean, 1e-6)
}

func TestGenerateConstantSeriesUsesNaive(t *testing.T) {
	counts := []int{50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50}
	history := makeHistory("2024-01-01", 1, counts)

	result, err := Generate(history, 1, DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, schema.ForecastModelNaive, result.Model)
	assert.Equal(t, 50.0, result.Predictions[0].Mean)
}

func TestGenerateGappyHistoryUsesNaive(t *testing.T) {
	counts := []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048}
	history := makeHistory("2024-01-01", 2, counts)

	result, err := Generate(history, 1, DefaultConfig())
	assert.NoError(t, err)
	assert.Equal(t, schema.ForecastModelNaive, result.Model)
}

func TestGenerateEmptyHistory(t *testing.T) {
	_, err := Generate(nil, 1, DefaultConfig())
	assert.ErrorIs(t, err, ErrModelFit)
}

func TestFitARRejectsConstantSeries(t *testing.T) {
	series := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	_, err := fitAR(series)
	assert.ErrorIs(t, err, ErrModelFit)
}

func TestAccuracy(t *testing.T) {
	acc := Accuracy(schema.ForecastModelNaive, []float64{10, 12}, []float64{8, 16})
	assert.Equal(t, 2, acc.Points)
	assert.InDelta(t, 3.0, acc.MAE, 1e-9)
	assert.InDelta(t, 3.16227766, acc.RMSE, 1e-6)
	assert.InDelta(t, 25.0, acc.MAPE, 1e-9)
}

func TestAccuracySkipsZeroActuals(t *testing.T) {
	acc := Accuracy(schema.ForecastModelAR, []float64{5, 10}, []float64{0, 10})
	assert.InDelta(t, 2.5, acc.MAE, 1e-9)
	assert.Equal(t, 0.0, acc.MAPE)
}

func TestAccuracyEmpty(t *testing.T) {
	acc := Accuracy(schema.ForecastModelNaive, nil, nil)
	assert.Equal(t, 0, acc.Points)
	assert.Equal(t, 0.0, acc.MAE)
}
