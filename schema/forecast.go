package schema

import "time"

const (
	ForecastCollection = "forecastsDaily"
)

// Forecast model names. Both models emit the same document shape; the
// model field records which path produced the point, since that changes
// how the confidence bounds should be read.
const (
	ForecastModelNaive = "naive"
	ForecastModelAR    = "ar"
)

// ForecastPoint is one predicted day for a (region, disease) pair.
type ForecastPoint struct {
	RegionID    string    `json:"region_id" bson:"region_id"`
	Date        string    `json:"date" bson:"date"`
	Disease     string    `json:"disease" bson:"disease"`
	Model       string    `json:"model" bson:"model"`
	Horizon     int       `json:"horizon" bson:"horizon"`
	PredMean    float64   `json:"pred_mean" bson:"pred_mean"`
	PredLower   float64   `json:"pred_lower" bson:"pred_lower"`
	PredUpper   float64   `json:"pred_upper" bson:"pred_upper"`
	RunID       string    `json:"run_id,omitempty" bson:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at" bson:"generated_at"`
}

func (p ForecastPoint) Key() ForecastKey {
	return ForecastKey{RegionID: p.RegionID, Date: p.Date, Disease: p.Disease, Model: p.Model}
}

// IntervalWidth is the size of the confidence band. For a fixed run it is
// non-decreasing in the horizon offset.
func (p ForecastPoint) IntervalWidth() float64 {
	return p.PredUpper - p.PredLower
}
