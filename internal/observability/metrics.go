package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the surf
// report pipeline.
type Metrics struct {
	PipelineRuns      *prometheus.CounterVec // labels: outcome={success,partial,failure}
	ReportsGenerated  prometheus.Counter
	ReportsPublished  prometheus.Counter
	IntradayRefreshes prometheus.Counter

	// Per-stage metrics.
	StageRuns     *prometheus.CounterVec   // labels: stage, outcome={success,error,skipped}
	StageDuration *prometheus.HistogramVec // labels: stage

	// Upstream fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: source={ndbc,coops,nws}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: source
	BuoyCache     *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "runs_total",
			Help:      "Total full pipeline runs by outcome.",
		}, []string{"outcome"}),
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "reports_generated_total",
			Help:      "Total daily surf reports written.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "reports_published_total",
			Help:      "Total surf reports published to the report topic.",
		}),
		IntradayRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "intraday_refreshes_total",
			Help:      "Total intraday report refreshes from fresh buoy data.",
		}),
		StageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "stage_runs_total",
			Help:      "Pipeline stage executions by stage and outcome.",
		}, []string{"stage", "outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "surf_pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "fetch_requests_total",
			Help:      "Upstream data source requests by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "surf_pipeline",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		BuoyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_pipeline",
			Name:      "buoy_cache_total",
			Help:      "Buoy observation cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.PipelineRuns,
		m.ReportsGenerated,
		m.ReportsPublished,
		m.IntradayRefreshes,
		m.StageRuns,
		m.StageDuration,
		m.FetchRequests,
		m.FetchDuration,
		m.BuoyCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PipelineRuns:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "runs_total"}, []string{"outcome"}),
		ReportsGenerated:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "reports_generated_total"}),
		ReportsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "reports_published_total"}),
		IntradayRefreshes: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "intraday_refreshes_total"}),
		StageRuns:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "stage_runs_total"}, []string{"stage", "outcome"}),
		StageDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "surf_pipeline", Name: "stage_duration_seconds"}, []string{"stage"}),
		FetchRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "fetch_requests_total"}, []string{"source", "outcome"}),
		FetchDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "surf_pipeline", Name: "fetch_duration_seconds"}, []string{"source"}),
		BuoyCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "surf_pipeline", Name: "buoy_cache_total"}, []string{"result"}),
	}
}
