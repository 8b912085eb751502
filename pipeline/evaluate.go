package pipeline

import (
	"time"

	"github.com/epiwatch/epiwatch-api/forecast"
	"github.com/epiwatch/epiwatch-api/schema"
)

// Evaluate backtests stored forecasts against the case records that have
// since arrived. It is read-only: forecast and case documents are joined
// in memory and nothing is written back. Forecast points with no matching
// actual yet are left out of the comparison. An empty regionID evaluates
// every region that has forecasts for the disease.
func (p *Pipeline) Evaluate(disease, regionID string) (*schema.AggregateMetrics, error) {
	regionIDs := []string{regionID}
	if regionID == "" {
		var err error
		regionIDs, err = p.store.ListForecastRegions(disease)
		if err != nil {
			return nil, err
		}
	}

	metrics := &schema.AggregateMetrics{
		Disease:     disease,
		Overall:     map[string]schema.ModelAccuracy{},
		EvaluatedAt: time.Now().UTC(),
	}

	pooled := map[string]*pairs{}

	for _, id := range regionIDs {
		regionPairs, err := p.collectPairs(id, disease)
		if err != nil {
			return nil, err
		}

		regionAccuracy := schema.RegionAccuracy{
			RegionID: id,
			Models:   map[string]schema.ModelAccuracy{},
		}
		for model, pr := range regionPairs {
			if len(pr.predicted) == 0 {
				continue
			}
			regionAccuracy.Models[model] = forecast.Accuracy(model, pr.predicted, pr.actual)

			pool, ok := pooled[model]
			if !ok {
				pool = &pairs{}
				pooled[model] = pool
			}
			pool.predicted = append(pool.predicted, pr.predicted...)
			pool.actual = append(pool.actual, pr.actual...)
		}
		if len(regionAccuracy.Models) > 0 {
			metrics.Regions = append(metrics.Regions, regionAccuracy)
		}
	}

	for model, pr := range pooled {
		metrics.Overall[model] = forecast.Accuracy(model, pr.predicted, pr.actual)
	}

	naive, hasNaive := metrics.Overall[schema.ForecastModelNaive]
	ar, hasAR := metrics.Overall[schema.ForecastModelAR]
	if hasNaive && hasAR {
		metrics.MAEDelta = naive.MAE - ar.MAE
	}

	return metrics, nil
}

type pairs struct {
	predicted []float64
	actual    []float64
}

// collectPairs joins a region's forecast points with the actual records
// for the same (region, date, disease), grouped by model.
func (p *Pipeline) collectPairs(regionID, disease string) (map[string]*pairs, error) {
	points, err := p.store.ListForecasts(regionID, disease, "")
	if err != nil {
		return nil, err
	}

	byModel := map[string]*pairs{}
	for _, point := range points {
		actual, err := p.store.GetCaseRecord(schema.CaseKey{
			RegionID: point.RegionID,
			Date:     point.Date,
			Disease:  point.Disease,
		})
		if err != nil {
			return nil, err
		}
		if actual == nil {
			continue
		}

		pr, ok := byModel[point.Model]
		if !ok {
			pr = &pairs{}
			byModel[point.Model] = pr
		}
		pr.predicted = append(pr.predicted, point.PredMean)
		pr.actual = append(pr.actual, float64(actual.Confirmed))
	}
	return byModel, nil
}
