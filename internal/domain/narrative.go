package domain

import (
	"fmt"
	"strings"
)

// NarrativeInput carries everything the report text is built from. The
// generator is pure: same input, same narrative, no I/O.
type NarrativeInput struct {
	Rating        int
	SurfMinFeet   float64
	SurfMaxFeet   float64
	SurfDisplay   string
	WindSpeedMph  float64
	WindDirection string
	WaterTempF    float64
	PeriodSeconds float64
	Source        PredictionSource
	TideSummary   string
}

// GenerateNarrative assembles a multi-sentence report narrative. Template
// selection is deterministic by threshold so two runs over the same numbers
// publish the same text.
func GenerateNarrative(in NarrativeInput) string {
	sentences := []string{
		ratingSentence(in.Rating),
		waveSentence(in.SurfMaxFeet, in.SurfDisplay),
		windSentence(in.WindDirection, in.WindSpeedMph),
	}

	if !IsMissing(in.WaterTempF) && in.WaterTempF != 0 {
		sentences = append(sentences, fmt.Sprintf("Water temperature is around %.0f°F.", in.WaterTempF))
	}

	sentences = append(sentences, sourceSentence(in.Source))

	if in.TideSummary != "" {
		sentences = append(sentences, in.TideSummary)
	}

	return strings.Join(sentences, " ")
}

func ratingSentence(rating int) string {
	switch {
	case rating >= 8:
		return "Excellent conditions today — get out there!"
	case rating >= 6:
		return "Good surf on tap today."
	case rating >= 4:
		return "Fair conditions, worth a paddle if you're keen."
	default:
		return "Poor conditions today."
	}
}

func waveSentence(maxFeet float64, display string) string {
	if IsMissing(maxFeet) || display == "" || display == "N/A" {
		return "Wave data is currently unavailable from the buoy."
	}
	switch {
	case maxFeet < 1.5:
		return fmt.Sprintf("Mostly flat with occasional %s nudges.", display)
	case maxFeet < 3:
		return fmt.Sprintf("Small but rideable waves in the %s range.", display)
	case maxFeet < 5:
		return fmt.Sprintf("Fun-sized surf running %s.", display)
	case maxFeet < 8:
		return fmt.Sprintf("Solid sets in the %s range — overhead on the better ones.", display)
	default:
		return fmt.Sprintf("Heavy surf at %s. Experienced surfers only.", display)
	}
}

func windSentence(direction string, speedMph float64) string {
	speedMph = orZero(speedMph)
	if direction == "" {
		return "Wind data is currently unavailable."
	}
	if isOffshore(direction) {
		if speedMph < 10 {
			return fmt.Sprintf("Light offshore wind out of the %s grooming the faces.", direction)
		}
		return fmt.Sprintf("Offshore wind at %.0f mph out of the %s holding the faces open.", speedMph, direction)
	}
	if speedMph < 10 {
		return fmt.Sprintf("Light onshore wind out of the %s putting a little texture on the surface.", direction)
	}
	return fmt.Sprintf("Onshore wind at %.0f mph out of the %s chopping things up.", speedMph, direction)
}

func sourceSentence(source PredictionSource) string {
	switch source {
	case SourceActual:
		return "Conditions are based on the latest buoy reading."
	case SourceAIPrediction:
		return "Forecast generated from trend analysis of recent buoy data."
	case SourceBuoyEstimation:
		return "Estimated from current buoy conditions."
	default:
		return "Based on seasonal averages for this break."
	}
}
