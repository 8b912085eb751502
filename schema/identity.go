package schema

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Every read, write and uniqueness constraint over case, risk, alert and
// forecast documents goes through one of the key types below. The disease
// identifier is a structural part of each key, so a write for one disease
// can never select a document belonging to another disease at the same
// (region, date).

var ErrIncompleteKey = fmt.Errorf("incomplete identity key")

// CaseKey identifies one daily case record.
type CaseKey struct {
	RegionID string
	Date     string
	Disease  string
}

func (k CaseKey) Validate() error {
	if k.RegionID == "" || k.Date == "" || k.Disease == "" {
		return ErrIncompleteKey
	}
	return nil
}

func (k CaseKey) Filter() bson.M {
	return bson.M{"region_id": k.RegionID, "date": k.Date, "disease": k.Disease}
}

// RiskKey identifies one risk score. Recomputation replaces the prior
// document for the same key.
type RiskKey struct {
	RegionID string
	Date     string
	Disease  string
}

func (k RiskKey) Validate() error {
	if k.RegionID == "" || k.Date == "" || k.Disease == "" {
		return ErrIncompleteKey
	}
	return nil
}

func (k RiskKey) Filter() bson.M {
	return bson.M{"region_id": k.RegionID, "date": k.Date, "disease": k.Disease}
}

// AlertKey identifies one alert. At most one alert exists per key.
type AlertKey struct {
	RegionID string
	Date     string
	Disease  string
	Reason   AlertReason
}

func (k AlertKey) Validate() error {
	if k.RegionID == "" || k.Date == "" || k.Disease == "" || k.Reason == "" {
		return ErrIncompleteKey
	}
	return nil
}

func (k AlertKey) Filter() bson.M {
	return bson.M{"region_id": k.RegionID, "date": k.Date, "disease": k.Disease, "reason": k.Reason}
}

// ForecastKey identifies one forecast point. Newer runs overwrite the
// document for the same key instead of appending.
type ForecastKey struct {
	RegionID string
	Date     string
	Disease  string
	Model    string
}

func (k ForecastKey) Validate() error {
	if k.RegionID == "" || k.Date == "" || k.Disease == "" || k.Model == "" {
		return ErrIncompleteKey
	}
	return nil
}

func (k ForecastKey) Filter() bson.M {
	return bson.M{"region_id": k.RegionID, "date": k.Date, "disease": k.Disease, "model": k.Model}
}

// RegionKey identifies a region metadata document. Disease may be the
// DiseaseAgnostic sentinel here, and only here.
type RegionKey struct {
	RegionID string
	Disease  string
}

func (k RegionKey) Validate() error {
	if k.RegionID == "" || k.Disease == "" {
		return ErrIncompleteKey
	}
	return nil
}

func (k RegionKey) Filter() bson.M {
	return bson.M{"region_id": k.RegionID, "disease": k.Disease}
}
