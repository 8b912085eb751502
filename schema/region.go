package schema

const (
	RegionCollection = "regions"
)

// DiseaseAgnostic is the sentinel disease identifier for region metadata
// that is not tied to a single disease. It is only legal on Region
// documents; every derived document carries a concrete disease.
const DiseaseAgnostic = "ANY"

// Region is a geographic surveillance unit. A disease-agnostic record and
// disease-specific overlay records may share the same region identifier;
// they are distinct documents keyed by (region_id, disease).
type Region struct {
	ID          string `json:"region_id" bson:"region_id"`
	Name        string `json:"name" bson:"name"`
	Disease     string `json:"disease" bson:"disease"`
	ClimateZone string `json:"climate_zone,omitempty" bson:"climate_zone,omitempty"`
	Population  int64  `json:"population,omitempty" bson:"population,omitempty"`
}
