package domain

import (
	"encoding/json"
	"time"
)

// SurfReport is the daily published artifact. Created once per date by the
// morning pipeline run; intraday buoy refreshes overwrite only the physical
// fields and rating and leave Conditions untouched, preserving the narrative
// written at generation time. A manual ReportText override, when set, takes
// display precedence over Conditions.
type SurfReport struct {
	Date           time.Time  `json:"date"`
	WaveHeightFeet float64    `json:"wave_height_feet"`
	PeriodSeconds  float64    `json:"period_seconds"`
	SwellDirection string     `json:"swell_direction"`
	WindSpeedMph   float64    `json:"wind_speed_mph"`
	WindDirection  string     `json:"wind_direction"`
	WaterTempF     float64    `json:"water_temp_f"`
	SurfMinFeet    float64    `json:"surf_min_feet"`
	SurfMaxFeet    float64    `json:"surf_max_feet"`
	SurfDisplay    string     `json:"surf_display"`
	TideSummary    string     `json:"tide"`
	Conditions     string     `json:"conditions"` // generated narrative
	Rating         int        `json:"rating"`
	ReportText     *string    `json:"report_text,omitempty"` // manual override
	EditedBy       *string    `json:"edited_by,omitempty"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DisplayText returns the text shown to readers: the manual override when a
// human has set one, otherwise the generated narrative.
func (r SurfReport) DisplayText() string {
	if r.ReportText != nil && *r.ReportText != "" {
		return *r.ReportText
	}
	return r.Conditions
}

// MarshalJSON renders missing numeric fields as null. encoding/json rejects
// NaN, so the sentinel must be translated before any report leaves the process.
func (r SurfReport) MarshalJSON() ([]byte, error) {
	type surfReportJSON struct {
		Date           time.Time  `json:"date"`
		WaveHeightFeet *float64   `json:"wave_height_feet"`
		PeriodSeconds  *float64   `json:"period_seconds"`
		SwellDirection string     `json:"swell_direction"`
		WindSpeedMph   *float64   `json:"wind_speed_mph"`
		WindDirection  string     `json:"wind_direction"`
		WaterTempF     *float64   `json:"water_temp_f"`
		SurfMinFeet    *float64   `json:"surf_min_feet"`
		SurfMaxFeet    *float64   `json:"surf_max_feet"`
		SurfDisplay    string     `json:"surf_display"`
		TideSummary    string     `json:"tide"`
		Conditions     string     `json:"conditions"`
		Rating         int        `json:"rating"`
		ReportText     *string    `json:"report_text,omitempty"`
		EditedBy       *string    `json:"edited_by,omitempty"`
		EditedAt       *time.Time `json:"edited_at,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
		UpdatedAt      time.Time  `json:"updated_at"`
	}
	return json.Marshal(surfReportJSON{
		Date:           r.Date,
		WaveHeightFeet: jsonFloat(r.WaveHeightFeet),
		PeriodSeconds:  jsonFloat(r.PeriodSeconds),
		SwellDirection: r.SwellDirection,
		WindSpeedMph:   jsonFloat(r.WindSpeedMph),
		WindDirection:  r.WindDirection,
		WaterTempF:     jsonFloat(r.WaterTempF),
		SurfMinFeet:    jsonFloat(r.SurfMinFeet),
		SurfMaxFeet:    jsonFloat(r.SurfMaxFeet),
		SurfDisplay:    r.SurfDisplay,
		TideSummary:    r.TideSummary,
		Conditions:     r.Conditions,
		Rating:         r.Rating,
		ReportText:     r.ReportText,
		EditedBy:       r.EditedBy,
		EditedAt:       r.EditedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	})
}

// jsonFloat maps a missing reading to a JSON null.
func jsonFloat(v float64) *float64 {
	if IsMissing(v) {
		return nil
	}
	return &v
}

// ReportPhysical is the subset of report fields the intraday refresh may
// touch. Keeping the narrative out of this struct makes it impossible for
// the refresh path to overwrite it.
type ReportPhysical struct {
	Date           time.Time
	WaveHeightFeet float64
	PeriodSeconds  float64
	SwellDirection string
	WindSpeedMph   float64
	WindDirection  string
	WaterTempF     float64
	SurfMinFeet    float64
	SurfMaxFeet    float64
	SurfDisplay    string
	Rating         int
}

// PhysicalFromObservation derives the refresh payload from a buoy reading,
// scoring with the given strategy. Missing readings flow through as NaN and
// are stored as NULL, never as zero.
func PhysicalFromObservation(obs Observation, rater RatingStrategy) ReportPhysical {
	estimate := EstimateSurfHeight(obs.WaveHeightMeters, obs.PeriodSeconds)

	waterTempF := Missing
	if !IsMissing(obs.WaterTempC) {
		waterTempF = CelsiusToFahrenheit(obs.WaterTempC)
	}

	rating := rater.Rate(RatingInput{
		SurfHeightFeet: estimate.MaxFeet,
		WindSpeedMph:   obs.WindSpeedMph(),
		WindDirection:  obs.WindCompass(),
		PeriodSeconds:  obs.PeriodSeconds,
	})

	return ReportPhysical{
		Date:           obs.Date,
		WaveHeightFeet: obs.WaveHeightFeet(),
		PeriodSeconds:  obs.PeriodSeconds,
		SwellDirection: obs.SwellCompass(),
		WindSpeedMph:   obs.WindSpeedMph(),
		WindDirection:  obs.WindCompass(),
		WaterTempF:     waterTempF,
		SurfMinFeet:    estimate.MinFeet,
		SurfMaxFeet:    estimate.MaxFeet,
		SurfDisplay:    estimate.Display,
		Rating:         rating,
	}
}
