package domain

import (
	"fmt"
	"math"
	"time"
)

// Prediction is one forecast of the rideable face range for a future date.
// Predictions are keyed by date; regenerating one overwrites the prior row.
type Prediction struct {
	Date        time.Time         `json:"date"`
	MinFeet     float64           `json:"min_feet"`
	MaxFeet     float64           `json:"max_feet"`
	Confidence  float64           `json:"confidence"`
	Factors     PredictionFactors `json:"factors"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// PredictionFactors records every intermediate term of a forecast so any
// prediction can be explained from its stored row alone.
type PredictionFactors struct {
	BaselineFeet       float64 `json:"baseline_feet"`
	HistoricalAverage  float64 `json:"historical_average"`
	TrendSlope         float64 `json:"trend_slope"`
	TrendContribution  float64 `json:"trend_contribution"`
	MeanReversion      float64 `json:"mean_reversion"`
	MAConvergence      float64 `json:"ma_convergence"`
	SeasonalMultiplier float64 `json:"seasonal_multiplier"`
	PeriodRatio        float64 `json:"period_ratio"`
	Volatility         float64 `json:"volatility"`
	UncertaintyFeet    float64 `json:"uncertainty_feet"`
	WaveMinFeet        float64 `json:"wave_min_feet"`
	WaveMaxFeet        float64 `json:"wave_max_feet"`
	PeriodSeconds      float64 `json:"period_seconds"`
}

// Forecast term weights. The blend is statistical, not physical: trend
// continuation pulls forward, mean reversion pulls far-out horizons back to
// the long-run average, and the MA convergence term reacts to short swells
// building over the weekly baseline.
const (
	trendWeight         = 0.3
	meanReversionWeight = 0.2
	maConvergenceWeight = 0.25
	seasonalWeight      = 0.15
	periodRatioWeight   = 0.10

	maxUncertaintyFeet = 2.0
	minWaveFloorFeet   = 0.5

	maxForecastDays = 7
)

// PredictSurfHeight forecasts the rideable face range daysAhead days from
// today, from a trailing (typically 30-day) observation series and the
// current reading. current may be nil; the historical average stands in for
// it. daysAhead must be in [1, maxForecastDays].
func PredictSurfHeight(history []Observation, current *Observation, daysAhead int) (Prediction, error) {
	if daysAhead < 1 || daysAhead > maxForecastDays {
		return Prediction{}, fmt.Errorf("days ahead %d out of range [1,%d]", daysAhead, maxForecastDays)
	}

	heights := WaveHeightSeries(history)
	periods := PeriodSeries(history)
	histAvg := MovingAverage(heights, len(heights))

	baseline := histAvg
	if current != nil && !IsMissing(current.WaveHeightFeet()) && current.WaveHeightFeet() > 0 {
		baseline = current.WaveHeightFeet()
	}
	if baseline <= 0 {
		return Prediction{}, fmt.Errorf("no usable wave height in history or current reading")
	}

	last7 := lastN(heights, 7)
	trendSlope := Trend(last7)
	trendContribution := trendSlope * float64(daysAhead) * trendWeight
	meanReversion := (histAvg - baseline) * meanReversionWeight * (float64(daysAhead) / float64(maxForecastDays))
	maConvergence := (MovingAverage(heights, 3) - MovingAverage(heights, 7)) * maConvergenceWeight

	predicted := baseline + trendContribution + meanReversion + maConvergence

	targetDate := TodayEST().AddDate(0, 0, daysAhead)
	seasonal := seasonalMultiplier(targetDate.Month())
	predicted *= 1 + (seasonal-1)*seasonalWeight

	period, periodRatio := effectivePeriod(current, periods)
	predicted *= 1 + (periodRatio-1)*periodRatioWeight
	predicted = math.Max(predicted, 0)

	volatility := StdDev(last7)
	uncertainty := math.Min(volatility*(1+float64(daysAhead)*0.2), maxUncertaintyFeet)

	waveMin := math.Max(predicted-uncertainty, minWaveFloorFeet)
	waveMax := predicted + uncertainty
	if waveMax < waveMin {
		waveMax = waveMin
	}

	confidence := clampFloat(0.9-float64(daysAhead)*0.08-volatility*0.1, 0.3, 0.95)

	minFt, maxFt := ForecastSurfRange(waveMin, waveMax, period)

	return Prediction{
		Date:        targetDate,
		MinFeet:     minFt,
		MaxFeet:     maxFt,
		Confidence:  confidence,
		GeneratedAt: clock.Now(),
		Factors: PredictionFactors{
			BaselineFeet:       baseline,
			HistoricalAverage:  histAvg,
			TrendSlope:         trendSlope,
			TrendContribution:  trendContribution,
			MeanReversion:      meanReversion,
			MAConvergence:      maConvergence,
			SeasonalMultiplier: seasonal,
			PeriodRatio:        periodRatio,
			Volatility:         volatility,
			UncertaintyFeet:    uncertainty,
			WaveMinFeet:        waveMin,
			WaveMaxFeet:        waveMax,
			PeriodSeconds:      period,
		},
	}, nil
}

// seasonalMultiplier scales for the May-September swell season.
func seasonalMultiplier(m time.Month) float64 {
	if m >= time.May && m <= time.September {
		return 1.1
	}
	return 0.9
}

// effectivePeriod picks the period used for face conversion and the ratio of
// the current period to the historical average. With no period data at all
// the mid tier is assumed and the ratio stays neutral.
func effectivePeriod(current *Observation, periods []float64) (period, ratio float64) {
	avgPeriod := MovingAverage(periods, len(periods))

	period = avgPeriod
	if current != nil && !IsMissing(current.PeriodSeconds) && current.PeriodSeconds > 0 {
		period = current.PeriodSeconds
	}
	if period <= 0 {
		return midPeriodSeconds, 1.0
	}

	ratio = 1.0
	if current != nil && !IsMissing(current.PeriodSeconds) && current.PeriodSeconds > 0 && avgPeriod > 0 {
		ratio = current.PeriodSeconds / avgPeriod
	}
	return period, ratio
}
