package domain

import (
	"fmt"
	"time"
)

// StationType identifies the kind of hydrological observation a station
// produces. The wire values match the upstream HRFCO API path segments.
type StationType string

const (
	TypeDam        StationType = "dam"
	TypeWaterLevel StationType = "waterlevel"
	TypeRainfall   StationType = "rainfall"
)

// ParseStationType converts a wire string into a StationType.
func ParseStationType(s string) (StationType, error) {
	switch StationType(s) {
	case TypeDam, TypeWaterLevel, TypeRainfall:
		return StationType(s), nil
	}
	return "", fmt.Errorf("unknown station type: %q", s)
}

// Valid reports whether t is one of the known station types.
func (t StationType) Valid() bool {
	return t == TypeDam || t == TypeWaterLevel || t == TypeRainfall
}

// Station is one entry of the observation-station catalog.
//
// A Station is immutable after catalog load. Code is unique within a
// StationType, but the same physical site may appear under several types
// with different codes (a dam site usually also has separate water-level
// and rainfall entries).
type Station struct {
	// Code is the identifier assigned by the upstream authority.
	Code string

	// Name is the official station name. It may carry a parenthetical
	// qualifier, e.g. "문경시(화산리)".
	Name string

	// Region is the administrative area; may be empty.
	Region string

	// Type is the observation kind of this entry.
	Type StationType

	// Keywords are alias fragments of the name/region used for fuzzy
	// lookup. Deduplicated, order-irrelevant.
	Keywords []string

	// Agency is the owning organization; informational only.
	Agency string
}

// ScoredStation pairs a catalog entry with its match score for one query.
// Scores are always within [0, 100].
type ScoredStation struct {
	Station
	Score float64
}

// Reading status values as reported (or substituted) for a station.
const (
	StatusNormal = "정상"
	StatusLow    = "저수위"
	StatusHigh   = "고수위"
)

// Trend describes how the primary measurement moved since the previous
// observation.
type Trend string

const (
	TrendRising  Trend = "상승"
	TrendFalling Trend = "하강"
	TrendStable  Trend = "안정"

	// TrendUnknown is reported when no prior observation exists to
	// compare against. A trend is never fabricated.
	TrendUnknown Trend = "정보없음"
)

// Reading is a point-in-time measurement for one station. A Reading is
// built fresh on every fetch and never mutated afterwards; cached copies
// are returned by value.
type Reading struct {
	StationCode string
	StationType StationType

	// Per-type measurements. Fields that do not apply to the station
	// type stay nil.
	WaterLevel  *float64 // meters (dam, waterlevel)
	StorageRate *float64 // percent (dam)
	Inflow      *float64 // ㎥/s (dam)
	Outflow     *float64 // ㎥/s (dam)
	Rainfall    *float64 // mm (rainfall)

	Status     string
	Trend      Trend
	ObservedAt time.Time

	// Synthetic marks demo data substituted after an upstream failure.
	// Callers must be able to tell substituted values from live ones.
	Synthetic bool
}

// PrimaryValue returns the measurement the Reading's type is about:
// water level for dams and level gauges, rainfall for rain gauges.
// Returns false when the value is missing.
func (r Reading) PrimaryValue() (float64, bool) {
	switch r.StationType {
	case TypeRainfall:
		if r.Rainfall != nil {
			return *r.Rainfall, true
		}
	default:
		if r.WaterLevel != nil {
			return *r.WaterLevel, true
		}
	}
	return 0, false
}

// CompareTrend derives the trend of cur relative to prev. The comparison
// uses each reading's primary value; a missing value on either side
// yields TrendUnknown. Movements below epsilon count as stable.
func CompareTrend(prev, cur Reading) Trend {
	const epsilon = 0.01

	p, ok := prev.PrimaryValue()
	if !ok {
		return TrendUnknown
	}
	c, ok := cur.PrimaryValue()
	if !ok {
		return TrendUnknown
	}

	switch d := c - p; {
	case d > epsilon:
		return TrendRising
	case d < -epsilon:
		return TrendFalling
	default:
		return TrendStable
	}
}

// Float returns a pointer to v. Convenience for building readings.
func Float(v float64) *float64 { return &v }
