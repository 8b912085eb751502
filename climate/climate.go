// Package climate applies seasonal transmission-risk multipliers to raw
// risk scores. The multipliers follow the Indian monsoon cycle, which
// drives vector-borne disease transmission: low in the dry winter,
// peaking during the July-August rains, elevated while standing water
// persists afterwards.
package climate

import (
	"fmt"
	"time"

	"github.com/epiwatch/epiwatch-api/schema"
)

const (
	SeasonWinter      = "winter"
	SeasonPreMonsoon  = "pre_monsoon"
	SeasonMonsoon     = "monsoon"
	SeasonPostMonsoon = "post_monsoon"
)

// Climate zones with different monsoon timing.
const (
	ZoneNorth   = "north"
	ZoneSouth   = "south"
	ZoneWest    = "west"
	ZoneEast    = "east"
	ZoneCentral = "central"
)

// Config holds the seasonal multiplier tables. They are data, not code:
// callers construct a Config (normally from DefaultConfig plus any
// operator overrides) and inject it wherever adjustment happens.
type Config struct {
	// MonthMultipliers is the all-India baseline per calendar month.
	MonthMultipliers map[time.Month]float64
	// ZoneOverrides replaces the baseline for specific months in zones
	// whose monsoon timing differs.
	ZoneOverrides map[string]map[time.Month]float64
}

// DefaultConfig returns the standard tables. Baseline range 0.5x (dry
// winter) to 1.8x (monsoon peak); the southern zone keeps October and
// November elevated for the northeast monsoon, the eastern zone sees
// earlier onset in May.
func DefaultConfig() Config {
	return Config{
		MonthMultipliers: map[time.Month]float64{
			time.January:   0.5,
			time.February:  0.5,
			time.March:     0.7,
			time.April:     0.8,
			time.May:       1.0,
			time.June:      1.5,
			time.July:      1.8,
			time.August:    1.7,
			time.September: 1.5,
			time.October:   1.2,
			time.November:  0.8,
			time.December:  0.6,
		},
		ZoneOverrides: map[string]map[time.Month]float64{
			ZoneSouth: {
				time.October:  1.4,
				time.November: 1.1,
			},
			ZoneEast: {
				time.May: 1.2,
			},
		},
	}
}

// defaultZones maps known region identifiers to their climate zone, used
// when a region document carries no zone of its own.
var defaultZones = map[string]string{
	"IN-DL": ZoneNorth, "IN-HR": ZoneNorth, "IN-PB": ZoneNorth, "IN-UP": ZoneNorth, "IN-RJ": ZoneNorth,
	"IN-KA": ZoneSouth, "IN-TN": ZoneSouth, "IN-KL": ZoneSouth, "IN-AP": ZoneSouth, "IN-TG": ZoneSouth,
	"IN-MH": ZoneWest, "IN-GA": ZoneWest,
	"IN-WB": ZoneEast, "IN-OR": ZoneEast, "IN-AS": ZoneEast,
	"IN-MP": ZoneCentral, "IN-CT": ZoneCentral,
}

// ZoneForRegion resolves a region's climate zone, preferring the zone on
// the region record.
func ZoneForRegion(region schema.Region) string {
	if region.ClimateZone != "" {
		return region.ClimateZone
	}
	if zone, ok := defaultZones[region.ID]; ok {
		return zone
	}
	return ZoneCentral
}

// Multiplier returns the seasonal multiplier for a month in a zone.
func (c Config) Multiplier(month time.Month, zone string) float64 {
	if overrides, ok := c.ZoneOverrides[zone]; ok {
		if m, ok := overrides[month]; ok {
			return m
		}
	}
	return c.MonthMultipliers[month]
}

// Season classifies a month into the monsoon cycle.
func Season(month time.Month) string {
	switch {
	case month >= time.June && month <= time.September:
		return SeasonMonsoon
	case month == time.October || month == time.November:
		return SeasonPostMonsoon
	case month >= time.March && month <= time.May:
		return SeasonPreMonsoon
	default:
		return SeasonWinter
	}
}

// Adjust applies the seasonal multiplier to a raw risk score and clamps
// the result back into [0,1]. Clamping is a hard requirement: the level
// thresholds are defined on the unit interval. Climate-insensitive
// diseases pass through with multiplier 1.0.
func (c Config) Adjust(raw float64, profile schema.DiseaseProfile, date string, zone string) (float64, schema.ClimateInfo) {
	info := schema.ClimateInfo{
		BaseScore:  raw,
		Multiplier: 1.0,
	}

	day, err := time.Parse(schema.DateLayout, date)
	if err != nil {
		info.Season = "unknown"
		info.Note = "unparseable date, no adjustment applied"
		return clamp01(raw), info
	}

	month := day.Month()
	info.Season = Season(month)
	info.Monsoon = info.Season == SeasonMonsoon

	if !profile.ClimateSensitive {
		info.Note = "climate-insensitive disease"
		return clamp01(raw), info
	}

	multiplier := c.Multiplier(month, zone)
	adjusted := clamp01(raw * multiplier)

	info.Multiplier = multiplier
	info.Note = fmt.Sprintf("%s (%s), x%.1f", info.Season, month.String()[:3], multiplier)

	return adjusted, info
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
