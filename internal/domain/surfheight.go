package domain

import (
	"fmt"
	"math"
)

// SurfHeightEstimate is the rideable wave-face range derived from one
// significant wave height and dominant period. Min and Max are NaN and
// Display is "N/A" when either input was missing.
type SurfHeightEstimate struct {
	MinFeet float64
	MaxFeet float64
	Display string
}

// Valid reports whether the estimate carries a usable numeric range.
func (e SurfHeightEstimate) Valid() bool {
	return !IsMissing(e.MinFeet) && !IsMissing(e.MaxFeet)
}

// faceMultipliers is the fraction of significant wave height that shows up as
// rideable face, bounded per period tier. Longer periods organize more of the
// wave's energy into the face.
type faceMultipliers struct {
	min float64
	max float64
}

const (
	longPeriodSeconds = 12.0
	midPeriodSeconds  = 8.0
)

// observationFaceCap and forecastFaceCap bound the face at (a fraction of)
// the significant wave height. The face can never exceed the wave that
// carries it; the forecast path shaves a further 5% because predicted wave
// heights already carry an uncertainty band.
const (
	observationFaceCap = 1.0
	forecastFaceCap    = 0.95
)

func multipliersForPeriod(periodSeconds float64) faceMultipliers {
	switch {
	case periodSeconds >= longPeriodSeconds:
		return faceMultipliers{min: 0.6, max: 0.75}
	case periodSeconds >= midPeriodSeconds:
		return faceMultipliers{min: 0.5, max: 0.6}
	default:
		return faceMultipliers{min: 0.35, max: 0.5}
	}
}

// EstimateSurfHeight derives the rideable face range from a buoy reading.
// Missing inputs propagate as an "N/A" estimate, never as a zero-foot surf.
func EstimateSurfHeight(waveHeightMeters, periodSeconds float64) SurfHeightEstimate {
	if IsMissing(waveHeightMeters) || IsMissing(periodSeconds) || waveHeightMeters <= 0 {
		return SurfHeightEstimate{MinFeet: Missing, MaxFeet: Missing, Display: "N/A"}
	}
	waveFeet := MetersToFeet(waveHeightMeters)
	minFt, maxFt := faceRange(waveFeet, waveFeet, periodSeconds, observationFaceCap)
	return SurfHeightEstimate{
		MinFeet: minFt,
		MaxFeet: maxFt,
		Display: FormatSurfRange(minFt, maxFt),
	}
}

// ForecastSurfRange converts a predicted wave-height range (feet) into a
// rideable face range using the same period tiers, capped at 95% of the
// respective wave bound.
func ForecastSurfRange(waveMinFeet, waveMaxFeet, periodSeconds float64) (minFt, maxFt float64) {
	return faceRange(waveMinFeet, waveMaxFeet, periodSeconds, forecastFaceCap)
}

// faceRange applies the period-tiered multipliers to each wave bound, rounds
// to the nearest half foot, and caps each bound at capFrac of its wave
// height. The ordering fix-up runs last so the invariant
// 0 <= min <= max <= waveFeet holds whatever the multiplier table says.
func faceRange(waveMinFeet, waveMaxFeet, periodSeconds, capFrac float64) (float64, float64) {
	mult := multipliersForPeriod(periodSeconds)

	minFt := RoundToHalf(waveMinFeet * mult.min)
	maxFt := RoundToHalf(waveMaxFeet * mult.max)

	minFt = math.Min(minFt, waveMinFeet*capFrac)
	maxFt = math.Min(maxFt, waveMaxFeet*capFrac)

	minFt = math.Max(minFt, 0)
	maxFt = math.Max(maxFt, 0)
	if minFt > maxFt {
		minFt = maxFt
	}
	return minFt, maxFt
}

// FormatSurfRange renders a face range as "2.5-3.0 ft", collapsing to a
// single value when the bounds coincide.
func FormatSurfRange(minFt, maxFt float64) string {
	if IsMissing(minFt) || IsMissing(maxFt) {
		return "N/A"
	}
	if minFt == maxFt {
		return fmt.Sprintf("%.1f ft", maxFt)
	}
	return fmt.Sprintf("%.1f-%.1f ft", minFt, maxFt)
}
