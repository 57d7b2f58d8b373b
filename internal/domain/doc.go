// Package domain models surf, tide, and weather conditions for a single
// coastal break and derives surf forecasts and daily reports from them.
//
// # Data Sources
//
// Buoy observations come from NDBC realtime2 standard meteorological files
// (https://www.ndbc.noaa.gov/data/realtime2/<station>.txt): two header lines
// followed by whitespace-delimited rows, newest first, with the fixed column
// order
//
//	YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS TIDE
//
// Timestamps are UTC. Missing readings are published as the sentinels "MM",
// 99.0, or 999.0 depending on column width; [ParseBuoyReport] maps every
// sentinel to NaN so a missing reading can never be mistaken for a flat sea
// or a zero-degree wind.
//
// Tide predictions come from the NOAA CO-OPS predictions product as JSON:
//
//	{"predictions": [{"t": "2026-03-14 06:12", "type": "H", "v": "4.213"}, ...]}
//
// with times in the station's local time zone and heights in feet above MLLW.
//
// Weather comes from the NWS gridpoint forecast: a list of half-day periods
// carrying startTime, temperature, isDaytime, shortForecast, windSpeed,
// windDirection, and probabilityOfPrecipitation.
//
// # Calendar Days
//
// All persisted rows are keyed by the calendar day observed in
// America/New_York, never UTC. A buoy row stamped 03:00 UTC belongs to the
// previous local day; keying by UTC would shift every late-evening reading
// onto tomorrow's report. [ESTDay] is the single place this truncation
// happens.
//
// # Surf Height
//
// Buoys report significant wave height: the mean height of the highest third
// of waves in the sample window. The rideable face is a fraction of that,
// and the fraction improves with dominant period: long-period groundswell
// stands up taller and cleaner than short-period wind chop. The estimator
// applies a period-tiered multiplier pair and caps the result at the wave
// height itself (95% in the forecast path), so the derived face can never
// exceed the physical wave.
//
// # Forecasting
//
// The predictor is a weighted linear blend over the trailing observation
// series (trend continuation, mean reversion, moving-average convergence,
// a seasonal factor, and a period-quality factor), not a wave-propagation
// model. Every contribution is captured in [PredictionFactors] so a forecast
// can always be explained after the fact. Confidence is a bounded heuristic
// in [0.3, 0.95] that decays with horizon and recent volatility.
package domain
