package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Expected column order of an NDBC realtime2 standard meteorological file.
const buoyColumnCount = 18

// Column indexes into a realtime2 data row.
const (
	colYear = iota
	colMonth
	colDay
	colHour
	colMinute
	colWindDir
	colWindSpeed
	colGust
	colWaveHeight
	colDominantPeriod
	colAveragePeriod
	colMeanWaveDir
	colPressure
	colAirTemp
	colWaterTemp
	colDewPoint
	colVisibility
	colTide
)

// Observation is a single point-in-time buoy reading. Numeric fields hold
// NaN when the buoy reported a missing-data sentinel; they are never zeroed.
// Observations are immutable once parsed and are keyed by their
// America/New_York calendar day.
type Observation struct {
	Time              time.Time // instant of the reading, UTC
	Date              time.Time // EST calendar day, midnight America/New_York
	WaveHeightMeters  float64
	PeriodSeconds     float64
	WindSpeedMps      float64
	WindDirectionDeg  float64
	WaterTempC        float64
	SwellDirectionDeg float64
}

// WaveHeightFeet returns the significant wave height in feet, or NaN when missing.
func (o Observation) WaveHeightFeet() float64 {
	if IsMissing(o.WaveHeightMeters) {
		return Missing
	}
	return MetersToFeet(o.WaveHeightMeters)
}

// WindSpeedMph returns the wind speed in miles per hour, or NaN when missing.
func (o Observation) WindSpeedMph() float64 {
	if IsMissing(o.WindSpeedMps) {
		return Missing
	}
	return MpsToMph(o.WindSpeedMps)
}

// WindCompass returns the 16-point compass label for the wind direction,
// or "" when missing.
func (o Observation) WindCompass() string {
	return DegreesToCompass(o.WindDirectionDeg)
}

// SwellCompass returns the 16-point compass label for the swell direction,
// or "" when missing.
func (o Observation) SwellCompass() string {
	return DegreesToCompass(o.SwellDirectionDeg)
}

// ParseBuoyReport parses an NDBC realtime2 text payload into observations,
// newest first, preserving the file's own ordering. Rows with malformed
// timestamps or the wrong column count are skipped; a payload with no usable
// rows is a *ParseError.
func ParseBuoyReport(payload string) ([]Observation, error) {
	lines := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")
	if len(lines) < 3 {
		return nil, &ParseError{Source: "ndbc", Reason: "payload shorter than header"}
	}

	observations := make([]Observation, 0, len(lines)-2)
	for _, line := range lines[2:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		obs, ok := parseBuoyRow(line)
		if !ok {
			continue
		}
		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, &ParseError{Source: "ndbc", Reason: "no parseable data rows"}
	}
	return observations, nil
}

// LatestObservation returns the most recent reading of a realtime2 payload.
func LatestObservation(payload string) (Observation, error) {
	observations, err := ParseBuoyReport(payload)
	if err != nil {
		return Observation{}, err
	}
	return observations[0], nil
}

func parseBuoyRow(line string) (Observation, bool) {
	fields := strings.Fields(line)
	if len(fields) != buoyColumnCount {
		return Observation{}, false
	}

	year, errY := strconv.Atoi(fields[colYear])
	month, errMo := strconv.Atoi(fields[colMonth])
	day, errD := strconv.Atoi(fields[colDay])
	hour, errH := strconv.Atoi(fields[colHour])
	minute, errMi := strconv.Atoi(fields[colMinute])
	if errY != nil || errMo != nil || errD != nil || errH != nil || errMi != nil {
		return Observation{}, false
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return Observation{}, false
	}

	ts := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	return Observation{
		Time:              ts,
		Date:              ESTDay(ts),
		WaveHeightMeters:  parseReading(fields[colWaveHeight]),
		PeriodSeconds:     parseReading(fields[colDominantPeriod]),
		WindSpeedMps:      parseReading(fields[colWindSpeed]),
		WindDirectionDeg:  parseReading(fields[colWindDir]),
		WaterTempC:        parseReading(fields[colWaterTemp]),
		SwellDirectionDeg: parseReading(fields[colMeanWaveDir]),
	}, true
}

// parseReading parses one numeric buoy field, mapping "MM" and the numeric
// sentinels to NaN.
func parseReading(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "MM") {
		return Missing
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || isSentinel(v) {
		return Missing
	}
	return v
}

// WaveHeightSeries extracts the wave heights in feet from an ordered series,
// dropping missing and non-positive samples. The result keeps the input order.
func WaveHeightSeries(series []Observation) []float64 {
	heights := make([]float64, 0, len(series))
	for _, obs := range series {
		h := obs.WaveHeightFeet()
		if IsMissing(h) || h <= 0 {
			continue
		}
		heights = append(heights, h)
	}
	return heights
}

// PeriodSeries extracts the dominant periods from an ordered series, dropping
// missing and non-positive samples.
func PeriodSeries(series []Observation) []float64 {
	periods := make([]float64, 0, len(series))
	for _, obs := range series {
		if IsMissing(obs.PeriodSeconds) || obs.PeriodSeconds <= 0 {
			continue
		}
		periods = append(periods, obs.PeriodSeconds)
	}
	return periods
}

func (o Observation) String() string {
	return fmt.Sprintf("obs %s wvht=%.2fm dpd=%.1fs wspd=%.1fm/s",
		o.Time.Format(time.RFC3339), o.WaveHeightMeters, o.PeriodSeconds, o.WindSpeedMps)
}
