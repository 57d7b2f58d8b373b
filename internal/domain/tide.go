package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TideType marks a tide extremum.
type TideType string

const (
	TideHigh TideType = "High"
	TideLow  TideType = "Low"
)

// TideEvent is one predicted high or low tide. The full event set for a date
// range is replaced wholesale on refresh, never merged.
type TideEvent struct {
	Time       time.Time `json:"time"`
	Date       time.Time `json:"date"` // EST calendar day of the event
	Type       TideType  `json:"type"`
	HeightFeet float64   `json:"height_feet"`
}

// coopsTimeLayout is the timestamp format of the CO-OPS predictions product,
// in the station's local time.
const coopsTimeLayout = "2006-01-02 15:04"

type coopsPrediction struct {
	T    string `json:"t"`
	Type string `json:"type"`
	V    string `json:"v"`
}

type coopsResponse struct {
	Predictions []coopsPrediction `json:"predictions"`
}

// ParseTidePredictions parses a CO-OPS hilo predictions payload. Rows with
// malformed timestamps or heights are skipped; an empty or row-free payload
// is a *ParseError.
func ParseTidePredictions(payload []byte) ([]TideEvent, error) {
	var resp coopsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &ParseError{Source: "coops", Reason: "invalid JSON", Err: err}
	}
	if len(resp.Predictions) == 0 {
		return nil, &ParseError{Source: "coops", Reason: "no predictions in payload"}
	}

	events := make([]TideEvent, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		ts, err := time.ParseInLocation(coopsTimeLayout, p.T, reportLocation)
		if err != nil {
			continue
		}
		height, err := strconv.ParseFloat(strings.TrimSpace(p.V), 64)
		if err != nil {
			continue
		}
		tideType := TideLow
		if strings.EqualFold(p.Type, "H") {
			tideType = TideHigh
		}
		events = append(events, TideEvent{
			Time:       ts,
			Date:       ESTDay(ts),
			Type:       tideType,
			HeightFeet: height,
		})
	}

	if len(events) == 0 {
		return nil, &ParseError{Source: "coops", Reason: "no parseable predictions"}
	}
	return events, nil
}

// TideSummary renders a day's events as a single sentence for the report,
// e.g. "High tide at 6:12 AM (4.2 ft), low tide at 12:30 PM (0.3 ft)."
func TideSummary(events []TideEvent, day time.Time) string {
	day = ESTDay(day)
	var parts []string
	for _, e := range events {
		if !e.Date.Equal(day) {
			continue
		}
		label := "low tide"
		if e.Type == TideHigh {
			label = "high tide"
		}
		if len(parts) == 0 {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		parts = append(parts, fmt.Sprintf("%s at %s (%.1f ft)",
			label, e.Time.In(reportLocation).Format("3:04 PM"), e.HeightFeet))
	}
	if len(parts) == 0 {
		return "Tide data unavailable."
	}
	return strings.Join(parts, ", ") + "."
}
