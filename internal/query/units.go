package query

import (
	"math"

	"github.com/fabstash/backend/internal/domain/models"
)

// YardToMeter is the conversion factor applied when normalizing yard
// measurements into meters. Filtering, sorting and aggregation must all use
// this exact constant or bucket membership would diverge from displayed
// totals.
const YardToMeter = 0.9144

// CanonicalLength converts a length value into meters. Meter is the
// identity; an unrecognized unit is passed through unchanged.
func CanonicalLength(value float64, unit models.LengthUnit) float64 {
	if unit == models.UnitYard {
		return value * YardToMeter
	}
	return value
}

// RemainingCanonical returns the unconsumed portion of a fabric in meters.
func RemainingCanonical(length, usedLength float64, unit models.LengthUnit) float64 {
	return CanonicalLength(length-usedLength, unit)
}

// Round2 rounds to two decimals, half away from zero. MongoDB's $round is
// half-to-even, so rounding happens here rather than inside pipelines.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
