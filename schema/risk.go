package schema

import "time"

const (
	RiskCollection = "riskScores"
)

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// RiskLevelForScore classifies a composite score. The CRITICAL tier is
// applied by alert generation on top of this classification.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return RiskLevelHigh
	case score >= 0.4:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

type RiskQuality string

const (
	// RiskQualityOK marks a score computed from a sufficient window.
	RiskQualityOK RiskQuality = "ok"
	// RiskQualityInsufficientData marks the zero-confidence sentinel
	// emitted when the window holds too few records. It must never be
	// read as a genuinely low risk.
	RiskQualityInsufficientData RiskQuality = "insufficient_data"
)

// Driver names a sub-indicator that pushed the score up, with its weighted
// contribution to the composite.
type Driver struct {
	Name         string  `json:"name" bson:"name"`
	Contribution float64 `json:"contribution" bson:"contribution"`
}

const (
	DriverGrowth     = "growth"
	DriverVolatility = "volatility"
	DriverDeathRatio = "death_ratio"
)

// WindowMetrics carries the raw sub-indicators derived from the case
// window, persisted alongside the score for explainability.
type WindowMetrics struct {
	WindowSize     int     `json:"window_size" bson:"window_size"`
	TodayConfirmed int     `json:"today_confirmed" bson:"today_confirmed"`
	PastConfirmed  int     `json:"past_confirmed" bson:"past_confirmed"`
	TodayDeaths    int     `json:"today_deaths" bson:"today_deaths"`
	GrowthRate     float64 `json:"growth_rate" bson:"growth_rate"`
	Volatility     float64 `json:"volatility" bson:"volatility"`
	DeathRatio     float64 `json:"death_ratio" bson:"death_ratio"`
}

// ClimateInfo records the seasonal adjustment applied to the raw score.
type ClimateInfo struct {
	BaseScore  float64 `json:"base_score" bson:"base_score"`
	Multiplier float64 `json:"multiplier" bson:"multiplier"`
	Season     string  `json:"season" bson:"season"`
	Monsoon    bool    `json:"monsoon" bson:"monsoon"`
	Note       string  `json:"note,omitempty" bson:"note,omitempty"`
}

type RiskScore struct {
	RegionID  string        `json:"region_id" bson:"region_id"`
	Date      string        `json:"date" bson:"date"`
	Disease   string        `json:"disease" bson:"disease"`
	Score     float64       `json:"risk_score" bson:"risk_score"`
	Level     RiskLevel     `json:"risk_level" bson:"risk_level"`
	Quality   RiskQuality   `json:"quality" bson:"quality"`
	Drivers   []Driver      `json:"drivers" bson:"drivers"`
	Metrics   WindowMetrics `json:"metrics" bson:"metrics"`
	Climate   ClimateInfo   `json:"climate" bson:"climate"`
	RunID     string        `json:"run_id,omitempty" bson:"run_id,omitempty"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

func (s RiskScore) Key() RiskKey {
	return RiskKey{RegionID: s.RegionID, Date: s.Date, Disease: s.Disease}
}
