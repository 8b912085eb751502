package schema

import "time"

const (
	AlertCollection = "alerts"
)

type AlertReason string

const (
	AlertReasonThresholdExceeded AlertReason = "threshold-exceeded"
	AlertReasonSustainedGrowth   AlertReason = "sustained-growth"
	AlertReasonVolatilitySpike   AlertReason = "volatility-spike"
)

// Alert records that a region crossed the high-risk threshold for a
// disease on a date. At most one alert exists per (region, date, disease,
// reason); regenerating for the same key is a no-op.
type Alert struct {
	RegionID  string      `json:"region_id" bson:"region_id"`
	Date      string      `json:"date" bson:"date"`
	Disease   string      `json:"disease" bson:"disease"`
	Reason    AlertReason `json:"reason" bson:"reason"`
	Score     float64     `json:"risk_score" bson:"risk_score"`
	Level     RiskLevel   `json:"risk_level" bson:"risk_level"`
	RunID     string      `json:"run_id,omitempty" bson:"run_id,omitempty"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

func (a Alert) Key() AlertKey {
	return AlertKey{RegionID: a.RegionID, Date: a.Date, Disease: a.Disease, Reason: a.Reason}
}
