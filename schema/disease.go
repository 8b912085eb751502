package schema

// CountSemantics describes how a disease's daily confirmed counts are to
// be read: new cases per day, or a running cumulative total. Volatility is
// measured over daily deltas for cumulative series.
type CountSemantics string

const (
	CountDaily      CountSemantics = "daily"
	CountCumulative CountSemantics = "cumulative"
)

// DiseaseProfile holds the per-disease knobs the pipeline needs. Profiles
// marked climate-insensitive pass through the seasonal adjuster unchanged.
type DiseaseProfile struct {
	ID               string         `json:"disease_id" bson:"disease_id"`
	Name             string         `json:"name" bson:"name"`
	ClimateSensitive bool           `json:"climate_sensitive" bson:"climate_sensitive"`
	Semantics        CountSemantics `json:"count_semantics" bson:"count_semantics"`
}

// DefaultDiseaseRegistry returns the built-in disease profiles. The
// configuration layer may extend or override these.
func DefaultDiseaseRegistry() map[string]DiseaseProfile {
	profiles := []DiseaseProfile{
		{ID: "DENGUE", Name: "Dengue Fever", ClimateSensitive: true, Semantics: CountDaily},
		{ID: "MALARIA", Name: "Malaria", ClimateSensitive: true, Semantics: CountDaily},
		{ID: "CHIKUNGUNYA", Name: "Chikungunya", ClimateSensitive: true, Semantics: CountDaily},
		{ID: "CHOLERA", Name: "Cholera", ClimateSensitive: true, Semantics: CountDaily},
		{ID: "TYPHOID", Name: "Typhoid Fever", ClimateSensitive: true, Semantics: CountDaily},
		{ID: "COVID", Name: "COVID-19", ClimateSensitive: false, Semantics: CountCumulative},
		{ID: "TUBERCULOSIS", Name: "Tuberculosis", ClimateSensitive: false, Semantics: CountDaily},
		{ID: "INFLUENZA", Name: "Influenza", ClimateSensitive: false, Semantics: CountDaily},
	}

	registry := make(map[string]DiseaseProfile, len(profiles))
	for _, p := range profiles {
		registry[p.ID] = p
	}
	return registry
}

// ProfileOrDefault looks up a disease profile, falling back to a plain
// daily-count, climate-insensitive profile for unregistered diseases.
func ProfileOrDefault(registry map[string]DiseaseProfile, disease string) DiseaseProfile {
	if p, ok := registry[disease]; ok {
		return p
	}
	return DiseaseProfile{ID: disease, Name: disease, Semantics: CountDaily}
}
