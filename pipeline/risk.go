package pipeline

import (
	"errors"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/epiwatch/epiwatch-api/climate"
	"github.com/epiwatch/epiwatch-api/schema"
	"github.com/epiwatch/epiwatch-api/score"
	"github.com/epiwatch/epiwatch-api/store"
)

// ComputeRiskScore scores one region for a disease on a date and persists
// the result. A window with too few records yields the zero-confidence
// sentinel rather than an error: downstream readers must be able to tell
// "we looked and found nothing" apart from "we never looked".
func (p *Pipeline) ComputeRiskScore(region schema.Region, disease, date, runID string) (*schema.RiskScore, error) {
	profile := schema.ProfileOrDefault(p.registry, disease)

	window, err := p.store.GetCaseWindow(region.ID, disease, date, p.cfg.RiskWindowDays)
	if err != nil && !errors.Is(err, store.ErrInsufficientData) {
		return nil, err
	}

	riskScore := schema.RiskScore{
		RegionID: region.ID,
		Date:     date,
		Disease:  disease,
		RunID:    runID,
	}

	metrics := score.CalculateIndicators(window, profile)
	if metrics.WindowSize < p.cfg.MinObservations {
		riskScore.Quality = schema.RiskQualityInsufficientData
		riskScore.Level = schema.RiskLevelLow
		riskScore.Metrics = metrics
		riskScore.Climate = schema.ClimateInfo{Multiplier: 1.0}
		if err := p.store.UpsertRiskScore(riskScore); err != nil {
			return nil, err
		}
		return &riskScore, nil
	}

	raw, drivers := score.CalculateRiskScore(metrics, p.cfg.Thresholds)
	adjusted, climateInfo := p.cfg.Climate.Adjust(raw, profile, date, climate.ZoneForRegion(region))

	riskScore.Score = adjusted
	riskScore.Level = schema.RiskLevelForScore(adjusted)
	riskScore.Quality = schema.RiskQualityOK
	riskScore.Drivers = drivers
	riskScore.Metrics = metrics
	riskScore.Climate = climateInfo

	if err := p.store.UpsertRiskScore(riskScore); err != nil {
		return nil, err
	}
	return &riskScore, nil
}

// ComputeRiskScores scores every region registered for the disease.
// Regions are scored concurrently; a region that fails is logged and
// skipped so one bad series cannot sink the whole run.
func (p *Pipeline) ComputeRiskScores(disease, date, runID string) (int, error) {
	regions, err := p.store.ListRegions(disease)
	if err != nil {
		return 0, err
	}
	if len(regions) == 0 {
		log.WithFields(log.Fields{
			"prefix": logPrefix, "disease": disease,
		}).Warn("no regions registered")
		return 0, nil
	}

	var scored atomic.Int64
	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for _, region := range regions {
		region := region
		g.Go(func() error {
			if _, err := p.ComputeRiskScore(region, disease, date, runID); err != nil {
				log.WithFields(log.Fields{
					"prefix":  logPrefix,
					"region":  region.ID,
					"disease": disease,
					"error":   err,
				}).Error("risk scoring failed")
				return nil
			}
			scored.Add(1)
			return nil
		})
	}
	g.Wait()

	return int(scored.Load()), nil
}
