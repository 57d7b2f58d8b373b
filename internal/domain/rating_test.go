package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdditiveRater(t *testing.T) {
	tests := []struct {
		name     string
		in       RatingInput
		expected int
	}{
		{
			name:     "ideal day maxes out",
			in:       RatingInput{SurfHeightFeet: 4, WindSpeedMph: 8, WindDirection: "NW", PeriodSeconds: 11},
			expected: 10, // 5 +2 height +2 light offshore +1 long period
		},
		{
			name:     "flat blown-out windswell bottoms out",
			in:       RatingInput{SurfHeightFeet: 1, WindSpeedMph: 20, WindDirection: "SE", PeriodSeconds: 4},
			expected: 1, // 5 -2 -2 -1 clamps at the floor
		},
		{
			name:     "waist high moderate offshore",
			in:       RatingInput{SurfHeightFeet: 2.5, WindSpeedMph: 16, WindDirection: "W", PeriodSeconds: 8},
			expected: 7, // 5 +1 height +1 offshore under 20
		},
		{
			name:     "big clean long period",
			in:       RatingInput{SurfHeightFeet: 7, WindSpeedMph: 5, WindDirection: "N", PeriodSeconds: 12},
			expected: 9, // 5 +1 height +2 offshore +1 period
		},
		{
			name:     "huge and out of control",
			in:       RatingInput{SurfHeightFeet: 10, WindSpeedMph: 18, WindDirection: "E", PeriodSeconds: 7},
			expected: 2, // 5 -1 height -2 onshore
		},
		{
			name:     "light onshore still costs a point",
			in:       RatingInput{SurfHeightFeet: 4, WindSpeedMph: 5, WindDirection: "S", PeriodSeconds: 8},
			expected: 6, // 5 +2 height -1 onshore
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AdditiveRater{}.Rate(tt.in))
		})
	}
}

func TestClassifyWind(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		speedMph  float64
		expected  WindCondition
	}{
		{"light offshore is clean", "NW", 8, CondClean},
		{"moderate offshore", "W", 15, CondModerate},
		{"strong offshore degrades", "N", 25, CondModeratelyPoor},
		{"light onshore", "SE", 5, CondModerate},
		{"moderate onshore", "E", 10, CondModeratelyPoor},
		{"strong onshore", "S", 20, CondPoor},
		{"gale onshore", "ESE", 30, CondVeryPoor},
		{"unknown direction counts as onshore", "", 5, CondModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyWind(tt.direction, tt.speedMph))
		})
	}
}

func TestWindConditionString(t *testing.T) {
	assert.Equal(t, "clean", CondClean.String())
	assert.Equal(t, "very poor", CondVeryPoor.String())
}

func TestBandedRater(t *testing.T) {
	tests := []struct {
		name     string
		in       RatingInput
		expected int
	}{
		{
			name:     "head high and clean",
			in:       RatingInput{SurfHeightFeet: 5, WindSpeedMph: 5, WindDirection: "NW", PeriodSeconds: 10},
			expected: 8,
		},
		{
			name:     "head high and blown out",
			in:       RatingInput{SurfHeightFeet: 5, WindSpeedMph: 30, WindDirection: "E", PeriodSeconds: 10},
			expected: 4,
		},
		{
			name:     "overhead stays rideable even in gale onshore",
			in:       RatingInput{SurfHeightFeet: 8, WindSpeedMph: 30, WindDirection: "SE", PeriodSeconds: 12},
			expected: 7,
		},
		{
			name:     "overhead and clean",
			in:       RatingInput{SurfHeightFeet: 8, WindSpeedMph: 6, WindDirection: "W", PeriodSeconds: 14},
			expected: 10,
		},
		{
			name:     "flat day scores near the floor",
			in:       RatingInput{SurfHeightFeet: 1, WindSpeedMph: 20, WindDirection: "S", PeriodSeconds: 9},
			expected: 1,
		},
		{
			name:     "short period downgrades one bucket",
			in:       RatingInput{SurfHeightFeet: 5, WindSpeedMph: 5, WindDirection: "NW", PeriodSeconds: 5},
			expected: 7, // clean becomes moderate
		},
		{
			name:     "band boundary 4.5 ft belongs to the larger band",
			in:       RatingInput{SurfHeightFeet: 4.5, WindSpeedMph: 5, WindDirection: "NW", PeriodSeconds: 10},
			expected: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BandedRater{}.Rate(tt.in))
		})
	}
}

func TestRaters_MissingInputsMatchZeroInputs(t *testing.T) {
	missing := RatingInput{
		SurfHeightFeet: Missing,
		WindSpeedMph:   Missing,
		WindDirection:  "",
		PeriodSeconds:  Missing,
	}
	zero := RatingInput{}

	for _, rater := range []RatingStrategy{AdditiveRater{}, BandedRater{}} {
		assert.Equal(t, rater.Rate(zero), rater.Rate(missing))
	}
}

func TestRaters_AlwaysInRange(t *testing.T) {
	heights := []float64{Missing, 0, 0.5, 1.5, 2, 2.5, 3, 4.5, 6, 6.5, 7, 8, 12}
	speeds := []float64{Missing, 0, 5, 10, 15, 20, 30}
	directions := []string{"", "N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	periods := []float64{Missing, 0, 4, 6, 8, 10, 14}

	for _, rater := range []RatingStrategy{AdditiveRater{}, BandedRater{}} {
		for _, h := range heights {
			for _, s := range speeds {
				for _, d := range directions {
					for _, p := range periods {
						in := RatingInput{SurfHeightFeet: h, WindSpeedMph: s, WindDirection: d, PeriodSeconds: p}
						rating := rater.Rate(in)
						if rating < 1 || rating > 10 {
							t.Fatalf("%T(%s) = %d, outside [1,10]", rater, describeInput(in), rating)
						}
					}
				}
			}
		}
	}
}

func describeInput(in RatingInput) string {
	return fmt.Sprintf("h=%.1f w=%.1f dir=%q p=%.1f",
		in.SurfHeightFeet, in.WindSpeedMph, in.WindDirection, in.PeriodSeconds)
}
