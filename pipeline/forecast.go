package pipeline

import (
	"errors"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/epiwatch/epiwatch-api/forecast"
	"github.com/epiwatch/epiwatch-api/schema"
	"github.com/epiwatch/epiwatch-api/store"
)

// GenerateForecast forecasts the next horizon days for one region and
// persists the points. Forecast dates are anchored strictly after asOf.
// An invalid horizon is the caller's error and propagates; anything the
// model layer cannot handle has already degraded to the naive baseline.
func (p *Pipeline) GenerateForecast(regionID, disease, asOf string, horizon int, runID string) (*forecast.Result, error) {
	history, err := p.store.GetCaseHistory(regionID, disease, asOf, p.cfg.ForecastLookback)
	if err != nil {
		return nil, err
	}

	result, err := forecast.Generate(history, horizon, p.cfg.Forecast)
	if err != nil {
		return nil, err
	}

	points := make([]schema.ForecastPoint, 0, len(result.Predictions))
	for _, prediction := range result.Predictions {
		points = append(points, schema.ForecastPoint{
			RegionID:  regionID,
			Date:      addDays(asOf, prediction.Horizon),
			Disease:   disease,
			Model:     result.Model,
			Horizon:   prediction.Horizon,
			PredMean:  prediction.Mean,
			PredLower: prediction.Lower,
			PredUpper: prediction.Upper,
			RunID:     runID,
		})
	}

	if err := p.store.UpsertForecastPoints(points); err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateForecasts forecasts every region registered for the disease.
// Regions without history are skipped; a bad horizon fails the stage
// before any region is touched.
func (p *Pipeline) GenerateForecasts(disease, asOf string, horizon int, runID string) (int, error) {
	if horizon < 1 || horizon > p.cfg.Forecast.MaxHorizonDays {
		return 0, forecast.ErrInvalidHorizon
	}

	regions, err := p.store.ListRegions(disease)
	if err != nil {
		return 0, err
	}

	var forecasted atomic.Int64
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for _, region := range regions {
		region := region
		g.Go(func() error {
			_, err := p.GenerateForecast(region.ID, disease, asOf, horizon, runID)
			switch {
			case err == nil:
				forecasted.Add(1)
			case errors.Is(err, store.ErrInsufficientData):
				// nothing to forecast from
			default:
				log.WithFields(log.Fields{
					"prefix":  logPrefix,
					"region":  region.ID,
					"disease": disease,
					"error":   err,
				}).Error("forecast generation failed")
			}
			return nil
		})
	}
	g.Wait()

	return int(forecasted.Load()), nil
}
