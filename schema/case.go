package schema

const (
	CaseCollection = "casesDaily"
)

// DateLayout is the storage format for all calendar dates. Dates are kept
// as ISO strings so that lexicographic order equals chronological order,
// which the window and range queries rely on.
const DateLayout = "2006-01-02"

// CaseRecord holds the reported counts for one (region, date, disease)
// triple. Records are immutable except for idempotent re-ingestion of the
// same triple, which overwrites exactly that triple's counts.
type CaseRecord struct {
	RegionID  string `json:"region_id" bson:"region_id"`
	Date      string `json:"date" bson:"date"`
	Disease   string `json:"disease" bson:"disease"`
	Confirmed int    `json:"confirmed" bson:"confirmed"`
	Deaths    int    `json:"deaths" bson:"deaths"`
	Recovered int    `json:"recovered" bson:"recovered"`
}

func (r CaseRecord) Key() CaseKey {
	return CaseKey{RegionID: r.RegionID, Date: r.Date, Disease: r.Disease}
}
