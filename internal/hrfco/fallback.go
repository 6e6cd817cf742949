package hrfco

import (
	"time"

	"github.com/hydrokr/stationd/internal/domain"
)

// Fallback builds the synthetic demo reading substituted when the live
// source is unreachable. The values are plausible for each station type;
// the Synthetic flag is what tells callers apart from live data, and the
// trend is never invented.
func Fallback(code string, typ domain.StationType, at time.Time) domain.Reading {
	reading := domain.Reading{
		StationCode: code,
		StationType: typ,
		Status:      domain.StatusNormal,
		Trend:       domain.TrendUnknown,
		ObservedAt:  at,
		Synthetic:   true,
	}

	switch typ {
	case domain.TypeDam:
		reading.WaterLevel = domain.Float(120.5)
		reading.StorageRate = domain.Float(78.5)
		reading.Inflow = domain.Float(15.2)
		reading.Outflow = domain.Float(12.8)
	case domain.TypeWaterLevel:
		reading.WaterLevel = domain.Float(8.5)
	case domain.TypeRainfall:
		reading.Rainfall = domain.Float(0.0)
	}
	return reading
}
