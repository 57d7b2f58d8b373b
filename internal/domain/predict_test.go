package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// historyFromFeet builds a daily observation series with the given wave
// heights in feet, oldest first, ending the day before the frozen clock.
func historyFromFeet(heightsFeet []float64, periodSeconds float64) []Observation {
	history := make([]Observation, 0, len(heightsFeet))
	for i, h := range heightsFeet {
		ts := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC).
			AddDate(0, 0, -(len(heightsFeet) - i))
		history = append(history, Observation{
			Time:             ts,
			Date:             ESTDay(ts),
			WaveHeightMeters: h / 3.28084,
			PeriodSeconds:    periodSeconds,
		})
	}
	return history
}

func freezeJune15(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, time.June, 15, 16, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })
	return now
}

func TestPredictSurfHeight_RisingTrend(t *testing.T) {
	now := freezeJune15(t)

	rising := historyFromFeet([]float64{2.0, 2.2, 2.4, 2.6, 2.8, 3.0, 3.2}, 9)
	flat := historyFromFeet([]float64{3.2, 3.2, 3.2, 3.2, 3.2, 3.2, 3.2}, 9)
	current := &Observation{WaveHeightMeters: 3.2 / 3.28084, PeriodSeconds: 9}

	risingPred, err := PredictSurfHeight(rising, current, 1)
	require.NoError(t, err)
	flatPred, err := PredictSurfHeight(flat, current, 1)
	require.NoError(t, err)

	// A building week pushes the forecast above what the same current
	// reading yields on a flat week.
	assert.Greater(t, risingPred.MaxFeet, flatPred.MaxFeet)
	assert.Greater(t, risingPred.Factors.TrendSlope, 0.0)
	assert.Greater(t, risingPred.Factors.MAConvergence, 0.0)
	assert.InDelta(t, 0.82, risingPred.Confidence, 0.05)

	assert.Equal(t, "2026-06-16", risingPred.Date.Format("2006-01-02"))
	assert.Equal(t, now, risingPred.GeneratedAt)
}

func TestPredictSurfHeight_ConfidenceDecaysWithHorizon(t *testing.T) {
	freezeJune15(t)

	history := historyFromFeet([]float64{3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0}, 10)
	current := &Observation{WaveHeightMeters: 3.0 / 3.28084, PeriodSeconds: 10}

	prev := 1.0
	for days := 1; days <= 7; days++ {
		pred, err := PredictSurfHeight(history, current, days)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, pred.Confidence, 0.3, "day %d", days)
		assert.LessOrEqual(t, pred.Confidence, 0.95, "day %d", days)
		assert.LessOrEqual(t, pred.Confidence, prev, "day %d must not exceed day %d", days, days-1)
		prev = pred.Confidence

		assert.GreaterOrEqual(t, pred.MinFeet, 0.0, "day %d", days)
		assert.GreaterOrEqual(t, pred.MaxFeet, pred.MinFeet, "day %d", days)
	}
}

func TestPredictSurfHeight_FactorsPopulated(t *testing.T) {
	freezeJune15(t)

	history := historyFromFeet([]float64{2.0, 2.2, 2.4, 2.6, 2.8, 3.0, 3.2}, 9)
	current := &Observation{WaveHeightMeters: 3.2 / 3.28084, PeriodSeconds: 9}

	pred, err := PredictSurfHeight(history, current, 2)
	require.NoError(t, err)

	f := pred.Factors
	assert.InDelta(t, 3.2, f.BaselineFeet, 1e-6)
	assert.InDelta(t, 2.6, f.HistoricalAverage, 1e-6)
	assert.InDelta(t, 1.1, f.SeasonalMultiplier, 1e-9) // June is in season
	assert.InDelta(t, 1.0, f.PeriodRatio, 1e-6)
	assert.InDelta(t, 0.4, f.Volatility, 1e-6)
	assert.InDelta(t, 9.0, f.PeriodSeconds, 1e-9)
	assert.Greater(t, f.UncertaintyFeet, 0.0)
	assert.LessOrEqual(t, f.UncertaintyFeet, 2.0)
}

func TestPredictSurfHeight_OffSeasonMultiplier(t *testing.T) {
	now := time.Date(2026, time.January, 10, 16, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	history := historyFromFeet([]float64{3.0, 3.0, 3.0, 3.0, 3.0, 3.0, 3.0}, 10)
	pred, err := PredictSurfHeight(history, nil, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, pred.Factors.SeasonalMultiplier, 1e-9)
}

func TestPredictSurfHeight_NilCurrentUsesHistoricalAverage(t *testing.T) {
	freezeJune15(t)

	history := historyFromFeet([]float64{2.0, 2.5, 3.0}, 10)
	pred, err := PredictSurfHeight(history, nil, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, pred.Factors.BaselineFeet, 1e-6)
	assert.InDelta(t, pred.Factors.HistoricalAverage, pred.Factors.BaselineFeet, 1e-9)
}

func TestPredictSurfHeight_Errors(t *testing.T) {
	freezeJune15(t)

	valid := historyFromFeet([]float64{2.0, 2.5}, 10)

	t.Run("days ahead below range", func(t *testing.T) {
		_, err := PredictSurfHeight(valid, nil, 0)
		assert.Error(t, err)
	})
	t.Run("days ahead above range", func(t *testing.T) {
		_, err := PredictSurfHeight(valid, nil, 8)
		assert.Error(t, err)
	})
	t.Run("no usable wave data", func(t *testing.T) {
		_, err := PredictSurfHeight(nil, nil, 1)
		assert.Error(t, err)
	})
	t.Run("history of only missing readings", func(t *testing.T) {
		history := []Observation{{WaveHeightMeters: Missing}, {WaveHeightMeters: Missing}}
		_, err := PredictSurfHeight(history, nil, 1)
		assert.Error(t, err)
	})
}

func TestPredictSurfHeight_MinimumFloor(t *testing.T) {
	freezeJune15(t)

	// A tiny, falling series must still forecast a wave of at least half a
	// foot before face conversion.
	history := historyFromFeet([]float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.55, 0.5}, 5)
	current := &Observation{WaveHeightMeters: 0.5 / 3.28084, PeriodSeconds: 5}

	pred, err := PredictSurfHeight(history, current, 7)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pred.Factors.WaveMinFeet, 0.5)
	assert.GreaterOrEqual(t, pred.MinFeet, 0.0)
}
