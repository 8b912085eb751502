package pipeline

import (
	log "github.com/sirupsen/logrus"

	"github.com/epiwatch/epiwatch-api/schema"
)

// GenerateAlerts creates alerts for every region whose adjusted score on
// the date is at or above the high-risk threshold. The threshold is
// inclusive. Sentinel scores are never alerted on. Returns the number of
// alert documents actually inserted; reruns insert nothing.
func (p *Pipeline) GenerateAlerts(disease, date, runID string) (int, error) {
	scores, err := p.store.ListRiskScores(date, disease)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, riskScore := range scores {
		if riskScore.Quality != schema.RiskQualityOK {
			continue
		}
		if riskScore.Score < p.cfg.HighRiskThreshold {
			continue
		}

		n, err := p.alertRegion(riskScore, runID)
		if err != nil {
			log.WithFields(log.Fields{
				"prefix":  logPrefix,
				"region":  riskScore.RegionID,
				"disease": disease,
				"error":   err,
			}).Error("alert generation failed")
			continue
		}
		inserted += n
	}
	return inserted, nil
}

// alertRegion writes the alerts one high-risk score warrants: always a
// threshold alert, plus one per significant driver. Each alert is keyed
// by (region, date, disease, reason), so regeneration is a no-op.
func (p *Pipeline) alertRegion(riskScore schema.RiskScore, runID string) (int, error) {
	level := riskScore.Level
	if riskScore.Score >= p.cfg.CriticalThreshold {
		level = schema.RiskLevelCritical
	}

	reasons := []schema.AlertReason{schema.AlertReasonThresholdExceeded}
	for _, driver := range riskScore.Drivers {
		switch driver.Name {
		case schema.DriverGrowth:
			reasons = append(reasons, schema.AlertReasonSustainedGrowth)
		case schema.DriverVolatility:
			reasons = append(reasons, schema.AlertReasonVolatilitySpike)
		}
	}

	inserted := 0
	for _, reason := range reasons {
		alert := schema.Alert{
			RegionID: riskScore.RegionID,
			Date:     riskScore.Date,
			Disease:  riskScore.Disease,
			Reason:   reason,
			Score:    riskScore.Score,
			Level:    level,
			RunID:    runID,
		}

		isNew, err := p.store.UpsertAlert(alert)
		if err != nil {
			return inserted, err
		}
		if !isNew {
			continue
		}
		inserted++

		if p.notifier == nil {
			continue
		}
		if err := p.notifier.EnqueueAlert(alert); err != nil {
			log.WithFields(log.Fields{
				"prefix": logPrefix,
				"region": alert.RegionID,
				"reason": alert.Reason,
				"error":  err,
			}).Error("alert notification failed")
		}
	}
	return inserted, nil
}
