package pipeline

import (
	"context"
	"time"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// Stage names, as reported in run results and metric labels.
const (
	StageFetchSurf      = "fetch_surf"
	StageFetchTide      = "fetch_tide"
	StageAnalyzeTrends  = "analyze_trends"
	StageFetchWeather   = "fetch_weather"
	StageGenerateReport = "generate_report"
)

// BuoySource provides the latest buoy observation, typically cached.
type BuoySource interface {
	Latest(ctx context.Context) (domain.Observation, error)
}

// TideSource provides high/low tide predictions starting from a given day.
type TideSource interface {
	Predictions(ctx context.Context, start time.Time, days int) ([]domain.TideEvent, error)
}

// WeatherSource provides the multi-day weather forecast.
type WeatherSource interface {
	Forecast(ctx context.Context) ([]domain.ForecastPeriod, error)
}

// Store persists conditions, predictions, tides, forecasts, and reports.
type Store interface {
	Ping(ctx context.Context) error
	UpsertConditions(ctx context.Context, obs domain.Observation) error
	ConditionsHistory(ctx context.Context, since time.Time) ([]domain.Observation, error)
	UpsertPrediction(ctx context.Context, p domain.Prediction) error
	PredictionsFrom(ctx context.Context, from time.Time) ([]domain.Prediction, error)
	ReplaceTides(ctx context.Context, from, to time.Time, events []domain.TideEvent) error
	TidesForDay(ctx context.Context, day time.Time) ([]domain.TideEvent, error)
	ReplaceForecast(ctx context.Context, days []domain.ForecastDay) error
	SaveReport(ctx context.Context, r domain.SurfReport) error
	GetReport(ctx context.Context, date time.Time) (domain.SurfReport, error)
	UpdateReportPhysical(ctx context.Context, p domain.ReportPhysical, updatedAt time.Time) error
}

// ReportPublisher emits finished reports to downstream consumers.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report domain.SurfReport) error
}

// FetchSurf pulls the latest buoy observation and upserts it into the
// conditions table under its EST calendar day.
func (o *Orchestrator) FetchSurf(ctx context.Context) error {
	obs, err := o.buoy.Latest(ctx)
	if err != nil {
		return err
	}
	if err := o.store.UpsertConditions(ctx, obs); err != nil {
		return err
	}
	o.logger.Info("surf conditions updated",
		"date", obs.Date.Format("2006-01-02"),
		"wave_height_m", obs.WaveHeightMeters,
		"period_s", obs.PeriodSeconds)
	return nil
}

// FetchTide pulls tide predictions for the configured window and replaces
// the stored rows for that date range wholesale.
func (o *Orchestrator) FetchTide(ctx context.Context) error {
	from := domain.TodayEST()
	to := from.AddDate(0, 0, o.settings.TideDays-1)

	events, err := o.tides.Predictions(ctx, from, o.settings.TideDays)
	if err != nil {
		return err
	}
	if err := o.store.ReplaceTides(ctx, from, to, events); err != nil {
		return err
	}
	o.logger.Info("tide predictions updated", "events", len(events), "days", o.settings.TideDays)
	return nil
}

// AnalyzeTrends recomputes every forward prediction from the stored
// conditions history. The current buoy reading sharpens the forecast when
// available; its absence degrades the prediction, it does not block it.
func (o *Orchestrator) AnalyzeTrends(ctx context.Context) error {
	since := domain.TodayEST().AddDate(0, 0, -o.settings.HistoryDays)
	history, err := o.store.ConditionsHistory(ctx, since)
	if err != nil {
		return err
	}

	current := o.currentObservation(ctx)
	for day := 1; day <= o.settings.PredictionDays; day++ {
		prediction, err := domain.PredictSurfHeight(history, current, day)
		if err != nil {
			return err
		}
		if err := o.store.UpsertPrediction(ctx, prediction); err != nil {
			return err
		}
	}
	o.logger.Info("trend predictions updated",
		"days", o.settings.PredictionDays, "history_points", len(history))
	return nil
}

// FetchWeather pulls the NWS forecast, merges it with stored predictions and
// the current reading, and replaces the forecast table.
func (o *Orchestrator) FetchWeather(ctx context.Context) error {
	periods, err := o.weather.Forecast(ctx)
	if err != nil {
		return err
	}
	predictions, err := o.store.PredictionsFrom(ctx, domain.TodayEST())
	if err != nil {
		return err
	}

	current := o.currentObservation(ctx)
	days := domain.BuildForecastDays(periods, predictions, current, o.settings.ForecastDays)
	if err := o.store.ReplaceForecast(ctx, days); err != nil {
		return err
	}
	o.logger.Info("weather forecast updated", "days", len(days), "periods", len(periods))
	return nil
}

// GenerateReport builds today's surf report from the latest observation and
// stored tides, writes the narrative, and saves it. An existing report for
// the date is overwritten except for any manual override, which survives.
func (o *Orchestrator) GenerateReport(ctx context.Context) error {
	obs, err := o.buoy.Latest(ctx)
	if err != nil {
		return err
	}

	today := domain.TodayEST()
	tideEvents, err := o.store.TidesForDay(ctx, today)
	if err != nil {
		o.logger.Warn("tide lookup failed, report proceeds without tides", "error", err)
		tideEvents = nil
	}
	tideSummary := domain.TideSummary(tideEvents, today)

	physical := domain.PhysicalFromObservation(obs, domain.AdditiveRater{})
	narrative := domain.GenerateNarrative(domain.NarrativeInput{
		Rating:        physical.Rating,
		SurfMinFeet:   physical.SurfMinFeet,
		SurfMaxFeet:   physical.SurfMaxFeet,
		SurfDisplay:   physical.SurfDisplay,
		WindSpeedMph:  physical.WindSpeedMph,
		WindDirection: physical.WindDirection,
		WaterTempF:    physical.WaterTempF,
		PeriodSeconds: physical.PeriodSeconds,
		Source:        domain.SourceActual,
		TideSummary:   tideSummary,
	})

	now := o.clock.Now()
	report := domain.SurfReport{
		Date:           today,
		WaveHeightFeet: physical.WaveHeightFeet,
		PeriodSeconds:  physical.PeriodSeconds,
		SwellDirection: physical.SwellDirection,
		WindSpeedMph:   physical.WindSpeedMph,
		WindDirection:  physical.WindDirection,
		WaterTempF:     physical.WaterTempF,
		SurfMinFeet:    physical.SurfMinFeet,
		SurfMaxFeet:    physical.SurfMaxFeet,
		SurfDisplay:    physical.SurfDisplay,
		TideSummary:    tideSummary,
		Conditions:     narrative,
		Rating:         physical.Rating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := o.store.SaveReport(ctx, report); err != nil {
		return err
	}
	o.metrics.ReportsGenerated.Inc()
	o.logger.Info("surf report generated",
		"date", today.Format("2006-01-02"), "rating", report.Rating, "surf", report.SurfDisplay)

	o.publish(ctx, report)
	return nil
}

// currentObservation fetches the latest buoy reading for use as a prediction
// input. Failure is tolerated here, the caller falls back to history alone.
func (o *Orchestrator) currentObservation(ctx context.Context) *domain.Observation {
	obs, err := o.buoy.Latest(ctx)
	if err != nil {
		o.logger.Warn("current observation unavailable", "error", err)
		return nil
	}
	return &obs
}

// publish sends a report downstream when a publisher is configured.
// Best effort: a publish failure is logged and never fails the stage.
func (o *Orchestrator) publish(ctx context.Context, report domain.SurfReport) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishReport(ctx, report); err != nil {
		o.logger.Warn("report publish failed", "date", report.Date.Format("2006-01-02"), "error", err)
		return
	}
	o.metrics.ReportsPublished.Inc()
}
