package domain

import (
	"encoding/json"
	"time"
)

// ForecastPeriod is one half-day slice of the NWS gridpoint forecast.
type ForecastPeriod struct {
	StartTime        time.Time
	Temperature      float64
	IsDaytime        bool
	ShortForecast    string
	DetailedForecast string
	WindSpeed        string // NWS publishes this as text, e.g. "10 to 15 mph"
	WindDirection    string
	PrecipChance     float64
}

type nwsPeriod struct {
	StartTime        string  `json:"startTime"`
	Temperature      float64 `json:"temperature"`
	IsDaytime        bool    `json:"isDaytime"`
	ShortForecast    string  `json:"shortForecast"`
	DetailedForecast string  `json:"detailedForecast"`
	WindSpeed        string  `json:"windSpeed"`
	WindDirection    string  `json:"windDirection"`
	Precipitation    struct {
		Value *float64 `json:"value"`
	} `json:"probabilityOfPrecipitation"`
}

type nwsForecastResponse struct {
	Properties struct {
		Periods []nwsPeriod `json:"periods"`
	} `json:"properties"`
}

// ParseForecastPeriods parses an NWS gridpoint forecast payload. Periods with
// malformed start times are skipped; a period-free payload is a *ParseError.
func ParseForecastPeriods(payload []byte) ([]ForecastPeriod, error) {
	var resp nwsForecastResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &ParseError{Source: "nws", Reason: "invalid JSON", Err: err}
	}
	if len(resp.Properties.Periods) == 0 {
		return nil, &ParseError{Source: "nws", Reason: "no forecast periods in payload"}
	}

	periods := make([]ForecastPeriod, 0, len(resp.Properties.Periods))
	for _, p := range resp.Properties.Periods {
		start, err := time.Parse(time.RFC3339, p.StartTime)
		if err != nil {
			continue
		}
		period := ForecastPeriod{
			StartTime:        start,
			Temperature:      p.Temperature,
			IsDaytime:        p.IsDaytime,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
			WindSpeed:        p.WindSpeed,
			WindDirection:    p.WindDirection,
		}
		if p.Precipitation.Value != nil {
			period.PrecipChance = *p.Precipitation.Value
		}
		periods = append(periods, period)
	}

	if len(periods) == 0 {
		return nil, &ParseError{Source: "nws", Reason: "no parseable periods"}
	}
	return periods, nil
}

// PredictionSource tags where a forecast day's surf range came from.
type PredictionSource string

const (
	SourceActual         PredictionSource = "actual"          // today's buoy reading
	SourceAIPrediction   PredictionSource = "ai_prediction"   // trend-model prediction
	SourceBuoyEstimation PredictionSource = "buoy_estimation" // extrapolated from current buoy
	SourceBaseline       PredictionSource = "baseline"        // static default, nothing better available
)

// ForecastDay merges one day's weather with its surf range and provenance.
// The full row set is replaced on every forecast run, not patched.
type ForecastDay struct {
	Date           time.Time        `json:"date"`
	HighTemp       float64          `json:"high_temp"`
	LowTemp        float64          `json:"low_temp"`
	ConditionsText string           `json:"conditions_text"`
	PrecipChance   float64          `json:"precipitation_chance"`
	WindSpeed      string           `json:"wind_speed"`
	WindDirection  string           `json:"wind_direction"`
	SurfMinFeet    float64          `json:"surf_min_feet"`
	SurfMaxFeet    float64          `json:"surf_max_feet"`
	SurfDisplay    string           `json:"surf_display"`
	Source         PredictionSource `json:"prediction_source"`
	Confidence     *float64         `json:"prediction_confidence,omitempty"`
}

// Baseline surf range used when neither a prediction nor a current buoy
// reading covers a date.
const (
	baselineSurfMinFeet = 1.0
	baselineSurfMaxFeet = 2.0
)

// BuildForecastDays assembles days forecast rows starting today, merging NWS
// weather periods with the best available surf source per date: today's
// reading, a stored prediction, an extrapolation from the current reading,
// or the static baseline, in that order of preference.
func BuildForecastDays(periods []ForecastPeriod, predictions []Prediction, current *Observation, days int) []ForecastDay {
	today := TodayEST()
	predByDate := make(map[time.Time]Prediction, len(predictions))
	for _, p := range predictions {
		predByDate[ESTDay(p.Date)] = p
	}

	out := make([]ForecastDay, 0, days)
	for offset := 0; offset < days; offset++ {
		date := today.AddDate(0, 0, offset)
		fd := ForecastDay{Date: date}

		dayPeriod, nightPeriod := periodsForDate(periods, date)
		if dayPeriod != nil {
			fd.HighTemp = dayPeriod.Temperature
			fd.ConditionsText = dayPeriod.ShortForecast
			fd.PrecipChance = dayPeriod.PrecipChance
			fd.WindSpeed = dayPeriod.WindSpeed
			fd.WindDirection = dayPeriod.WindDirection
		}
		if nightPeriod != nil {
			fd.LowTemp = nightPeriod.Temperature
			if dayPeriod == nil {
				fd.ConditionsText = nightPeriod.ShortForecast
				fd.WindSpeed = nightPeriod.WindSpeed
				fd.WindDirection = nightPeriod.WindDirection
			}
		}

		fd = applySurfSource(fd, date, today, predByDate, current)
		out = append(out, fd)
	}
	return out
}

func applySurfSource(fd ForecastDay, date, today time.Time, predByDate map[time.Time]Prediction, current *Observation) ForecastDay {
	currentEstimate := SurfHeightEstimate{MinFeet: Missing, MaxFeet: Missing, Display: "N/A"}
	if current != nil {
		currentEstimate = EstimateSurfHeight(current.WaveHeightMeters, current.PeriodSeconds)
	}

	switch {
	case date.Equal(today) && currentEstimate.Valid():
		fd.SurfMinFeet = currentEstimate.MinFeet
		fd.SurfMaxFeet = currentEstimate.MaxFeet
		fd.SurfDisplay = currentEstimate.Display
		fd.Source = SourceActual
	case hasPrediction(predByDate, date):
		p := predByDate[date]
		fd.SurfMinFeet = p.MinFeet
		fd.SurfMaxFeet = p.MaxFeet
		fd.SurfDisplay = FormatSurfRange(p.MinFeet, p.MaxFeet)
		fd.Source = SourceAIPrediction
		confidence := p.Confidence
		fd.Confidence = &confidence
	case currentEstimate.Valid():
		fd.SurfMinFeet = currentEstimate.MinFeet
		fd.SurfMaxFeet = currentEstimate.MaxFeet
		fd.SurfDisplay = currentEstimate.Display
		fd.Source = SourceBuoyEstimation
	default:
		fd.SurfMinFeet = baselineSurfMinFeet
		fd.SurfMaxFeet = baselineSurfMaxFeet
		fd.SurfDisplay = FormatSurfRange(baselineSurfMinFeet, baselineSurfMaxFeet)
		fd.Source = SourceBaseline
	}
	return fd
}

func hasPrediction(predByDate map[time.Time]Prediction, date time.Time) bool {
	_, ok := predByDate[date]
	return ok
}

// periodsForDate picks the daytime and nighttime periods whose local start
// date matches the given EST day.
func periodsForDate(periods []ForecastPeriod, date time.Time) (day, night *ForecastPeriod) {
	for i := range periods {
		p := &periods[i]
		if !ESTDay(p.StartTime).Equal(date) {
			continue
		}
		if p.IsDaytime && day == nil {
			day = p
		} else if !p.IsDaytime && night == nil {
			night = p
		}
	}
	return day, night
}
