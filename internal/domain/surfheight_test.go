package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateSurfHeight(t *testing.T) {
	tests := []struct {
		name            string
		waveMeters      float64
		periodSeconds   float64
		expectedDisplay string
	}{
		// 1.5 m at 10 s sits in the mid tier (0.5-0.6): 4.92 ft of swell
		// becomes a 2.5-3.0 ft face.
		{"mid period groundswell", 1.5, 10, "2.5-3.0 ft"},
		{"long period organizes more face", 1.5, 13, "3.0-3.5 ft"},
		{"short period windswell", 1.5, 6, "1.5-2.5 ft"},
		{"small day collapses to single value", 0.3, 9, "0.5 ft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate := EstimateSurfHeight(tt.waveMeters, tt.periodSeconds)
			require.True(t, estimate.Valid())
			assert.Equal(t, tt.expectedDisplay, estimate.Display)
		})
	}
}

func TestEstimateSurfHeight_MissingInputs(t *testing.T) {
	tests := []struct {
		name          string
		waveMeters    float64
		periodSeconds float64
	}{
		{"missing wave height", Missing, 10},
		{"missing period", 1.5, Missing},
		{"both missing", Missing, Missing},
		{"zero wave height", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate := EstimateSurfHeight(tt.waveMeters, tt.periodSeconds)
			assert.False(t, estimate.Valid())
			assert.Equal(t, "N/A", estimate.Display)
			assert.True(t, IsMissing(estimate.MinFeet))
			assert.True(t, IsMissing(estimate.MaxFeet))
		})
	}
}

func TestEstimateSurfHeight_RangeInvariant(t *testing.T) {
	for _, period := range []float64{4, 9, 14} {
		for wave := 0.1; wave <= 8.0; wave += 0.3 {
			name := fmt.Sprintf("wvht=%.1fm dpd=%.0fs", wave, period)
			t.Run(name, func(t *testing.T) {
				estimate := EstimateSurfHeight(wave, period)
				require.True(t, estimate.Valid())

				waveFeet := MetersToFeet(wave)
				assert.GreaterOrEqual(t, estimate.MinFeet, 0.0)
				assert.LessOrEqual(t, estimate.MinFeet, estimate.MaxFeet)
				assert.LessOrEqual(t, estimate.MaxFeet, waveFeet)
			})
		}
	}
}

func TestForecastSurfRange(t *testing.T) {
	// Forecast faces are capped at 95% of the wave bound, so a tiny
	// predicted wave can never produce a face taller than itself.
	minFt, maxFt := ForecastSurfRange(0.5, 0.5, 13)
	assert.LessOrEqual(t, maxFt, 0.5*0.95)
	assert.LessOrEqual(t, minFt, maxFt)

	minFt, maxFt = ForecastSurfRange(3.0, 5.0, 10)
	assert.InDelta(t, 1.5, minFt, 1e-9)
	assert.InDelta(t, 3.0, maxFt, 1e-9)
}

func TestFormatSurfRange(t *testing.T) {
	assert.Equal(t, "2.5-3.0 ft", FormatSurfRange(2.5, 3.0))
	assert.Equal(t, "3.0 ft", FormatSurfRange(3.0, 3.0))
	assert.Equal(t, "N/A", FormatSurfRange(Missing, 3.0))
	assert.Equal(t, "N/A", FormatSurfRange(2.5, Missing))
}
