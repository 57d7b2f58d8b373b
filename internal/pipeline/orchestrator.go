package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/lydonmn/surf-vista/internal/domain"
	"github.com/lydonmn/surf-vista/internal/observability"
)

// Settings carries the tunable windows and timeouts for a pipeline run.
type Settings struct {
	TideDays       int
	ForecastDays   int
	HistoryDays    int
	PredictionDays int
	FetchTimeout   time.Duration
	ReportTimeout  time.Duration
}

// StageResult records the outcome of one stage within a run.
type StageResult struct {
	Stage      string `json:"stage"`
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// RunResult summarizes a full pipeline run.
type RunResult struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Success   bool          `json:"success"`
	Stages    []StageResult `json:"stages"`
}

// Orchestrator wires the data sources, store, and publisher into the surf
// report pipeline. Stages can run individually or as a full ordered run.
type Orchestrator struct {
	buoy      BuoySource
	tides     TideSource
	weather   WeatherSource
	store     Store
	publisher ReportPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	settings  Settings
	clock     clockwork.Clock
}

// New creates an Orchestrator. publisher may be nil when report publication
// is disabled.
func New(buoy BuoySource, tides TideSource, weather WeatherSource, store Store,
	publisher ReportPublisher, logger *slog.Logger, metrics *observability.Metrics,
	settings Settings) *Orchestrator {
	return &Orchestrator{
		buoy:      buoy,
		tides:     tides,
		weather:   weather,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		settings:  settings,
		clock:     clockwork.NewRealClock(),
	}
}

// SetClock replaces the wall clock used for report timestamps. Test hook.
func (o *Orchestrator) SetClock(clock clockwork.Clock) {
	o.clock = clock
}

// CheckReadiness reports whether the service can do useful work, which for
// an on-demand pipeline means the datastore answers.
func (o *Orchestrator) CheckReadiness(ctx context.Context) error {
	return o.store.Ping(ctx)
}

// RunAll executes the full pipeline: surf and tide fetches in parallel, then
// trend analysis, then the weather forecast, then the report. The report
// stage is skipped when the surf or weather fetch failed, every other stage
// failure is recorded and the remaining stages still run.
func (o *Orchestrator) RunAll(ctx context.Context) RunResult {
	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)
	logger.Info("pipeline run started")

	result := RunResult{RunID: runID, StartedAt: o.clock.Now()}

	var surf, tide StageResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		surf = o.runStage(ctx, logger, StageFetchSurf, o.settings.FetchTimeout, o.FetchSurf)
	}()
	go func() {
		defer wg.Done()
		tide = o.runStage(ctx, logger, StageFetchTide, o.settings.FetchTimeout, o.FetchTide)
	}()
	wg.Wait()

	trends := o.runStage(ctx, logger, StageAnalyzeTrends, o.settings.FetchTimeout, o.AnalyzeTrends)
	weather := o.runStage(ctx, logger, StageFetchWeather, o.settings.FetchTimeout, o.FetchWeather)

	var report StageResult
	switch {
	case !surf.Success:
		report = o.skipStage(logger, StageGenerateReport, StageFetchSurf)
	case !weather.Success:
		report = o.skipStage(logger, StageGenerateReport, StageFetchWeather)
	default:
		report = o.runStage(ctx, logger, StageGenerateReport, o.settings.ReportTimeout, o.GenerateReport)
	}

	result.Stages = []StageResult{surf, tide, trends, weather, report}
	result.Success = true
	failed := 0
	for _, stage := range result.Stages {
		if !stage.Success {
			result.Success = false
			failed++
		}
	}

	outcome := "success"
	switch {
	case failed == len(result.Stages):
		outcome = "failure"
	case failed > 0:
		outcome = "partial"
	}
	o.metrics.PipelineRuns.WithLabelValues(outcome).Inc()
	logger.Info("pipeline run finished", "outcome", outcome, "failed_stages", failed)
	return result
}

// RefreshIntraday re-reads the buoy and updates today's report in place:
// physical fields and rating only, the morning narrative is untouched. It
// fails with domain.ErrReportNotFound when no report exists for today, a
// refresh never creates a report.
func (o *Orchestrator) RefreshIntraday(ctx context.Context) error {
	today := domain.TodayEST()
	if _, err := o.store.GetReport(ctx, today); err != nil {
		return err
	}

	obs, err := o.buoy.Latest(ctx)
	if err != nil {
		return err
	}

	physical := domain.PhysicalFromObservation(obs, domain.BandedRater{})
	physical.Date = today
	if err := o.store.UpdateReportPhysical(ctx, physical, o.clock.Now()); err != nil {
		return err
	}
	o.metrics.IntradayRefreshes.Inc()
	o.logger.Info("intraday report refreshed",
		"date", today.Format("2006-01-02"), "rating", physical.Rating, "surf", physical.SurfDisplay)

	if o.publisher != nil {
		updated, err := o.store.GetReport(ctx, today)
		if err != nil {
			o.logger.Warn("refreshed report re-read failed, publish skipped", "error", err)
			return nil
		}
		o.publish(ctx, updated)
	}
	return nil
}

// runStage executes one stage under its timeout and records metrics and the
// stage outcome.
func (o *Orchestrator) runStage(ctx context.Context, logger *slog.Logger, stage string,
	timeout time.Duration, fn func(context.Context) error) StageResult {
	start := time.Now()
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(stageCtx)
	elapsed := time.Since(start)
	o.metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())

	if err != nil {
		o.metrics.StageRuns.WithLabelValues(stage, "error").Inc()
		logger.Error("stage failed", "stage", stage, "error", err, "duration", elapsed)
		return StageResult{Stage: stage, Error: err.Error(), DurationMS: elapsed.Milliseconds()}
	}
	o.metrics.StageRuns.WithLabelValues(stage, "success").Inc()
	logger.Info("stage complete", "stage", stage, "duration", elapsed)
	return StageResult{Stage: stage, Success: true, DurationMS: elapsed.Milliseconds()}
}

// skipStage records a stage that never ran because a dependency failed.
func (o *Orchestrator) skipStage(logger *slog.Logger, stage, dependsOn string) StageResult {
	err := &domain.DependencyError{Stage: stage, DependsOn: dependsOn}
	o.metrics.StageRuns.WithLabelValues(stage, "skipped").Inc()
	logger.Warn("stage skipped", "stage", stage, "depends_on", dependsOn)
	return StageResult{Stage: stage, Skipped: true, Error: err.Error()}
}
