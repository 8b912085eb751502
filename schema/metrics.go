package schema

import "time"

// ModelAccuracy aggregates forecast error metrics for one model.
type ModelAccuracy struct {
	Model  string  `json:"model" bson:"model"`
	Points int     `json:"points_compared" bson:"points_compared"`
	MAE    float64 `json:"mae" bson:"mae"`
	MAPE   float64 `json:"mape" bson:"mape"`
	RMSE   float64 `json:"rmse" bson:"rmse"`
}

// RegionAccuracy holds per-model accuracy for one region.
type RegionAccuracy struct {
	RegionID string                   `json:"region_id" bson:"region_id"`
	Models   map[string]ModelAccuracy `json:"models" bson:"models"`
}

// AggregateMetrics is the read-only result of a backtest: accuracy per
// region and across regions, with the naive-versus-statistical delta.
type AggregateMetrics struct {
	Disease     string                   `json:"disease" bson:"disease"`
	Regions     []RegionAccuracy         `json:"regions" bson:"regions"`
	Overall     map[string]ModelAccuracy `json:"overall" bson:"overall"`
	MAEDelta    float64                  `json:"mae_delta" bson:"mae_delta"`
	EvaluatedAt time.Time                `json:"evaluated_at" bson:"evaluated_at"`
}
