package domain

import (
	"math"
	"time"
)

// compassPoints are the 16 points of the compass in clockwise order from north.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// reportLocation is the calendar-day time zone for all persisted rows. Buoy
// timestamps are UTC; keying rows by the UTC date would assign late-evening
// readings to the following day.
var reportLocation = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("load location " + name + ": " + err.Error())
	}
	return loc
}

// MetersToFeet converts a length in meters to feet.
func MetersToFeet(m float64) float64 {
	return m * 3.28084
}

// MpsToMph converts a speed in meters per second to miles per hour.
func MpsToMph(mps float64) float64 {
	return mps * 2.23694
}

// CelsiusToFahrenheit converts a temperature in degrees Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

// DegreesToCompass maps a bearing in degrees to its 16-point compass label.
// Out-of-range inputs are normalized into [0, 360).
func DegreesToCompass(deg float64) string {
	if IsMissing(deg) {
		return ""
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/22.5)) % len(compassPoints)
	return compassPoints[idx]
}

// RoundToHalf rounds a value to the nearest 0.5.
func RoundToHalf(v float64) float64 {
	return math.Round(v*2) / 2
}

// Missing is the canonical absent value for numeric observation fields.
// NDBC publishes "MM", 99.0, or 999.0 for unreported readings; the parser
// maps all of them here so missing data cannot masquerade as zero.
var Missing = math.NaN()

// IsMissing reports whether a numeric field carries no reading.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// isSentinel reports whether a raw NDBC value is a missing-data sentinel.
func isSentinel(v float64) bool {
	return v == 99.0 || v == 999.0 || v == 9999.0
}

// orZero flattens a missing value to 0 for scoring paths that must never
// fail on absent inputs.
func orZero(v float64) float64 {
	if IsMissing(v) {
		return 0
	}
	return v
}

// ESTDay truncates an instant to midnight of its America/New_York calendar
// day. The result is the natural key for every per-day row.
func ESTDay(t time.Time) time.Time {
	local := t.In(reportLocation)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, reportLocation)
}

// TodayEST returns the current America/New_York calendar day.
func TodayEST() time.Time {
	return ESTDay(clock.Now())
}

// ReportLocation exposes the calendar-day time zone for parsers that consume
// local-time payloads (CO-OPS predictions).
func ReportLocation() *time.Location {
	return reportLocation
}
