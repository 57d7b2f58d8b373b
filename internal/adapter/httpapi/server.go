package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lydonmn/surf-vista/internal/domain"
	"github.com/lydonmn/surf-vista/internal/pipeline"
)

// Pipeline is the orchestration surface the API triggers.
type Pipeline interface {
	FetchSurf(ctx context.Context) error
	FetchTide(ctx context.Context) error
	AnalyzeTrends(ctx context.Context) error
	FetchWeather(ctx context.Context) error
	GenerateReport(ctx context.Context) error
	RunAll(ctx context.Context) pipeline.RunResult
	RefreshIntraday(ctx context.Context) error
	CheckReadiness(ctx context.Context) error
}

// ReportStore is the report read and override surface the API exposes.
type ReportStore interface {
	GetReport(ctx context.Context, date time.Time) (domain.SurfReport, error)
	SetReportOverride(ctx context.Context, date time.Time, text, editedBy string, editedAt time.Time) error
	ClearReportOverride(ctx context.Context, date time.Time, updatedAt time.Time) error
}

// Server exposes the pipeline trigger, report, health, readiness, and
// metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	pipeline   Pipeline
	reports    ReportStore
	logger     *slog.Logger
	clock      clockwork.Clock
}

// NewServer creates the API server and wires all routes.
func NewServer(addr string, pl Pipeline, reports ReportStore, logger *slog.Logger) *Server {
	s := &Server{
		pipeline: pl,
		reports:  reports,
		logger:   logger,
		clock:    clockwork.NewRealClock(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/functions/update-surf-data", s.stageHandler(pl.FetchSurf)).Methods(http.MethodPost)
	r.HandleFunc("/functions/update-tide-data", s.stageHandler(pl.FetchTide)).Methods(http.MethodPost)
	r.HandleFunc("/functions/analyze-trends", s.stageHandler(pl.AnalyzeTrends)).Methods(http.MethodPost)
	r.HandleFunc("/functions/update-weather-data", s.stageHandler(pl.FetchWeather)).Methods(http.MethodPost)
	r.HandleFunc("/functions/generate-surf-report", s.stageHandler(pl.GenerateReport)).Methods(http.MethodPost)
	r.HandleFunc("/functions/update-all", s.handleUpdateAll).Methods(http.MethodPost)
	r.HandleFunc("/functions/refresh-report", s.stageHandler(pl.RefreshIntraday)).Methods(http.MethodPost)

	r.HandleFunc("/reports/{date}", s.handleGetReport).Methods(http.MethodGet)
	r.HandleFunc("/reports/{date}/override", s.handleSetOverride).Methods(http.MethodPut)
	r.HandleFunc("/reports/{date}/override", s.handleClearOverride).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute, // update-all runs the whole pipeline inline
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// SetClock replaces the wall clock used for edit timestamps. Test hook.
func (s *Server) SetClock(clock clockwork.Clock) {
	s.clock = clock
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// stageHandler adapts a single pipeline operation into a POST handler.
func (s *Server) stageHandler(fn func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context()); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func (s *Server) handleUpdateAll(w http.ResponseWriter, r *http.Request) {
	result := s.pipeline.RunAll(r.Context())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	date, ok := s.reportDate(w, r)
	if !ok {
		return
	}
	report, err := s.reports.GetReport(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type overrideRequest struct {
	ReportText string `json:"report_text"`
	EditedBy   string `json:"edited_by"`
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	date, ok := s.reportDate(w, r)
	if !ok {
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.ReportText) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "report_text is required"})
		return
	}
	if strings.TrimSpace(req.EditedBy) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "edited_by is required"})
		return
	}

	if err := s.reports.SetReportOverride(r.Context(), date, req.ReportText, req.EditedBy, s.clock.Now()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("report override set", "date", date.Format("2006-01-02"), "edited_by", req.EditedBy)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	date, ok := s.reportDate(w, r)
	if !ok {
		return
	}
	if err := s.reports.ClearReportOverride(r.Context(), date, s.clock.Now()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("report override cleared", "date", date.Format("2006-01-02"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.pipeline.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// reportDate parses the {date} path variable as a report day in the report
// timezone. Writes a 400 and returns false on a malformed date.
func (s *Server) reportDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := mux.Vars(r)["date"]
	date, err := time.ParseInLocation("2006-01-02", raw, domain.ReportLocation())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// writeError maps domain errors onto HTTP statuses: missing reports are 404,
// upstream source failures are 502, everything else is 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var upstream *domain.UpstreamError
	var parse *domain.ParseError
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		status = http.StatusNotFound
	case errors.As(err, &upstream), errors.As(err, &parse):
		status = http.StatusBadGateway
	}

	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
