package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// Store persists observations, predictions, tides, forecasts, and reports in
// PostgreSQL. Every per-day table is keyed by the America/New_York calendar
// day, so writes for the same date replace rather than accumulate.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Ping verifies the database connection, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &domain.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// nullFloat maps a possibly-missing reading to its SQL representation.
// Missing readings persist as NULL, never as zero.
func nullFloat(v float64) sql.NullFloat64 {
	if domain.IsMissing(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// floatOrMissing is the inverse of nullFloat.
func floatOrMissing(n sql.NullFloat64) float64 {
	if !n.Valid {
		return domain.Missing
	}
	return n.Float64
}

// UpsertConditions stores a buoy observation as its date's conditions row,
// replacing any earlier reading for the same day.
func (s *Store) UpsertConditions(ctx context.Context, obs domain.Observation) error {
	const query = `
		INSERT INTO surf_conditions
			(date, observed_at, wave_height_m, period_s, wind_speed_mps, wind_dir_deg, water_temp_c, swell_dir_deg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (date) DO UPDATE SET
			observed_at = EXCLUDED.observed_at,
			wave_height_m = EXCLUDED.wave_height_m,
			period_s = EXCLUDED.period_s,
			wind_speed_mps = EXCLUDED.wind_speed_mps,
			wind_dir_deg = EXCLUDED.wind_dir_deg,
			water_temp_c = EXCLUDED.water_temp_c,
			swell_dir_deg = EXCLUDED.swell_dir_deg`

	_, err := s.db.ExecContext(ctx, query,
		obs.Date, obs.Time,
		nullFloat(obs.WaveHeightMeters), nullFloat(obs.PeriodSeconds),
		nullFloat(obs.WindSpeedMps), nullFloat(obs.WindDirectionDeg),
		nullFloat(obs.WaterTempC), nullFloat(obs.SwellDirectionDeg))
	if err != nil {
		return &domain.StoreError{Op: "upsert surf_conditions", Err: err}
	}
	return nil
}

type conditionsRow struct {
	Date         time.Time       `db:"date"`
	ObservedAt   time.Time       `db:"observed_at"`
	WaveHeightM  sql.NullFloat64 `db:"wave_height_m"`
	PeriodS      sql.NullFloat64 `db:"period_s"`
	WindSpeedMps sql.NullFloat64 `db:"wind_speed_mps"`
	WindDirDeg   sql.NullFloat64 `db:"wind_dir_deg"`
	WaterTempC   sql.NullFloat64 `db:"water_temp_c"`
	SwellDirDeg  sql.NullFloat64 `db:"swell_dir_deg"`
}

// ConditionsHistory returns the trailing days of stored observations, oldest
// first, for trend analysis.
func (s *Store) ConditionsHistory(ctx context.Context, since time.Time) ([]domain.Observation, error) {
	const query = `
		SELECT date, observed_at, wave_height_m, period_s, wind_speed_mps, wind_dir_deg, water_temp_c, swell_dir_deg
		FROM surf_conditions
		WHERE date >= $1
		ORDER BY date ASC`

	var rows []conditionsRow
	if err := s.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, &domain.StoreError{Op: "select surf_conditions", Err: err}
	}

	observations := make([]domain.Observation, 0, len(rows))
	for _, r := range rows {
		observations = append(observations, domain.Observation{
			Date:              r.Date,
			Time:              r.ObservedAt,
			WaveHeightMeters:  floatOrMissing(r.WaveHeightM),
			PeriodSeconds:     floatOrMissing(r.PeriodS),
			WindSpeedMps:      floatOrMissing(r.WindSpeedMps),
			WindDirectionDeg:  floatOrMissing(r.WindDirDeg),
			WaterTempC:        floatOrMissing(r.WaterTempC),
			SwellDirectionDeg: floatOrMissing(r.SwellDirDeg),
		})
	}
	return observations, nil
}

// UpsertPrediction stores a forecast for its date, replacing any prior run's
// row. Factors persist as JSONB so any prediction can be explained later.
func (s *Store) UpsertPrediction(ctx context.Context, p domain.Prediction) error {
	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return &domain.StoreError{Op: "marshal prediction factors", Err: err}
	}

	const query = `
		INSERT INTO surf_predictions (date, min_feet, max_feet, confidence, factors, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			min_feet = EXCLUDED.min_feet,
			max_feet = EXCLUDED.max_feet,
			confidence = EXCLUDED.confidence,
			factors = EXCLUDED.factors,
			generated_at = EXCLUDED.generated_at`

	_, err = s.db.ExecContext(ctx, query,
		p.Date, p.MinFeet, p.MaxFeet, p.Confidence, factors, p.GeneratedAt)
	if err != nil {
		return &domain.StoreError{Op: "upsert surf_predictions", Err: err}
	}
	return nil
}

type predictionRow struct {
	Date        time.Time `db:"date"`
	MinFeet     float64   `db:"min_feet"`
	MaxFeet     float64   `db:"max_feet"`
	Confidence  float64   `db:"confidence"`
	Factors     []byte    `db:"factors"`
	GeneratedAt time.Time `db:"generated_at"`
}

// PredictionsFrom returns stored predictions for dates on or after the given
// day, ordered by date.
func (s *Store) PredictionsFrom(ctx context.Context, from time.Time) ([]domain.Prediction, error) {
	const query = `
		SELECT date, min_feet, max_feet, confidence, factors, generated_at
		FROM surf_predictions
		WHERE date >= $1
		ORDER BY date ASC`

	var rows []predictionRow
	if err := s.db.SelectContext(ctx, &rows, query, from); err != nil {
		return nil, &domain.StoreError{Op: "select surf_predictions", Err: err}
	}

	predictions := make([]domain.Prediction, 0, len(rows))
	for _, r := range rows {
		p := domain.Prediction{
			Date:        r.Date,
			MinFeet:     r.MinFeet,
			MaxFeet:     r.MaxFeet,
			Confidence:  r.Confidence,
			GeneratedAt: r.GeneratedAt,
		}
		if len(r.Factors) > 0 {
			if err := json.Unmarshal(r.Factors, &p.Factors); err != nil {
				return nil, &domain.StoreError{Op: "unmarshal prediction factors", Err: err}
			}
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// ReplaceTides swaps the stored tide events for the date range covered by the
// new set, in one transaction. A partial overlap never survives: delete and
// insert commit together or not at all.
func (s *Store) ReplaceTides(ctx context.Context, from, to time.Time, events []domain.TideEvent) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin tide_data tx", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tide_data WHERE date >= $1 AND date <= $2`, from, to); err != nil {
		return &domain.StoreError{Op: "delete tide_data", Err: err}
	}

	const insert = `
		INSERT INTO tide_data (time, date, type, height_feet)
		VALUES ($1, $2, $3, $4)`
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, insert, e.Time, e.Date, string(e.Type), e.HeightFeet); err != nil {
			return &domain.StoreError{Op: "insert tide_data", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit tide_data tx", Err: err}
	}
	return nil
}

type tideRow struct {
	Time       time.Time `db:"time"`
	Date       time.Time `db:"date"`
	Type       string    `db:"type"`
	HeightFeet float64   `db:"height_feet"`
}

// TidesForDay returns the stored tide events for one calendar day, in time order.
func (s *Store) TidesForDay(ctx context.Context, day time.Time) ([]domain.TideEvent, error) {
	const query = `
		SELECT time, date, type, height_feet
		FROM tide_data
		WHERE date = $1
		ORDER BY time ASC`

	var rows []tideRow
	if err := s.db.SelectContext(ctx, &rows, query, day); err != nil {
		return nil, &domain.StoreError{Op: "select tide_data", Err: err}
	}

	events := make([]domain.TideEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, domain.TideEvent{
			Time:       r.Time,
			Date:       r.Date,
			Type:       domain.TideType(r.Type),
			HeightFeet: r.HeightFeet,
		})
	}
	return events, nil
}

// ReplaceForecast swaps the whole weather_forecast table for the new day set
// in one transaction.
func (s *Store) ReplaceForecast(ctx context.Context, days []domain.ForecastDay) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin weather_forecast tx", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weather_forecast`); err != nil {
		return &domain.StoreError{Op: "delete weather_forecast", Err: err}
	}

	const insert = `
		INSERT INTO weather_forecast
			(date, high_temp, low_temp, conditions_text, precipitation_chance,
			 wind_speed, wind_direction, surf_min_feet, surf_max_feet, surf_display,
			 prediction_source, prediction_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, d := range days {
		var confidence sql.NullFloat64
		if d.Confidence != nil {
			confidence = sql.NullFloat64{Float64: *d.Confidence, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insert,
			d.Date, d.HighTemp, d.LowTemp, d.ConditionsText, d.PrecipChance,
			d.WindSpeed, d.WindDirection, d.SurfMinFeet, d.SurfMaxFeet, d.SurfDisplay,
			string(d.Source), confidence); err != nil {
			return &domain.StoreError{Op: "insert weather_forecast", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit weather_forecast tx", Err: err}
	}
	return nil
}

type reportRow struct {
	Date           time.Time       `db:"date"`
	WaveHeightFeet sql.NullFloat64 `db:"wave_height_feet"`
	PeriodSeconds  sql.NullFloat64 `db:"period_seconds"`
	SwellDirection string          `db:"swell_direction"`
	WindSpeedMph   sql.NullFloat64 `db:"wind_speed_mph"`
	WindDirection  string          `db:"wind_direction"`
	WaterTempF     sql.NullFloat64 `db:"water_temp_f"`
	SurfMinFeet    sql.NullFloat64 `db:"surf_min_feet"`
	SurfMaxFeet    sql.NullFloat64 `db:"surf_max_feet"`
	SurfDisplay    string          `db:"surf_display"`
	TideSummary    string          `db:"tide_summary"`
	Conditions     string          `db:"conditions"`
	Rating         int             `db:"rating"`
	ReportText     sql.NullString  `db:"report_text"`
	EditedBy       sql.NullString  `db:"edited_by"`
	EditedAt       sql.NullTime    `db:"edited_at"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// SaveReport upserts the generated report for its date. A manual report_text
// override and its edit audit are deliberately absent from the update list,
// so regeneration never destroys a human edit.
func (s *Store) SaveReport(ctx context.Context, r domain.SurfReport) error {
	const query = `
		INSERT INTO surf_reports
			(date, wave_height_feet, period_seconds, swell_direction, wind_speed_mph,
			 wind_direction, water_temp_f, surf_min_feet, surf_max_feet, surf_display,
			 tide_summary, conditions, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (date) DO UPDATE SET
			wave_height_feet = EXCLUDED.wave_height_feet,
			period_seconds = EXCLUDED.period_seconds,
			swell_direction = EXCLUDED.swell_direction,
			wind_speed_mph = EXCLUDED.wind_speed_mph,
			wind_direction = EXCLUDED.wind_direction,
			water_temp_f = EXCLUDED.water_temp_f,
			surf_min_feet = EXCLUDED.surf_min_feet,
			surf_max_feet = EXCLUDED.surf_max_feet,
			surf_display = EXCLUDED.surf_display,
			tide_summary = EXCLUDED.tide_summary,
			conditions = EXCLUDED.conditions,
			rating = EXCLUDED.rating,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		r.Date,
		nullFloat(r.WaveHeightFeet), nullFloat(r.PeriodSeconds), r.SwellDirection,
		nullFloat(r.WindSpeedMph), r.WindDirection, nullFloat(r.WaterTempF),
		nullFloat(r.SurfMinFeet), nullFloat(r.SurfMaxFeet), r.SurfDisplay,
		r.TideSummary, r.Conditions, r.Rating, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return &domain.StoreError{Op: "upsert surf_reports", Err: err}
	}
	return nil
}

// GetReport fetches the report for one date. Returns domain.ErrReportNotFound
// when no report exists.
func (s *Store) GetReport(ctx context.Context, date time.Time) (domain.SurfReport, error) {
	const query = `
		SELECT date, wave_height_feet, period_seconds, swell_direction, wind_speed_mph,
		       wind_direction, water_temp_f, surf_min_feet, surf_max_feet, surf_display,
		       tide_summary, conditions, rating, report_text, edited_by, edited_at,
		       created_at, updated_at
		FROM surf_reports
		WHERE date = $1`

	var row reportRow
	if err := s.db.GetContext(ctx, &row, query, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SurfReport{}, domain.ErrReportNotFound
		}
		return domain.SurfReport{}, &domain.StoreError{Op: "select surf_reports", Err: err}
	}

	report := domain.SurfReport{
		Date:           row.Date,
		WaveHeightFeet: floatOrMissing(row.WaveHeightFeet),
		PeriodSeconds:  floatOrMissing(row.PeriodSeconds),
		SwellDirection: row.SwellDirection,
		WindSpeedMph:   floatOrMissing(row.WindSpeedMph),
		WindDirection:  row.WindDirection,
		WaterTempF:     floatOrMissing(row.WaterTempF),
		SurfMinFeet:    floatOrMissing(row.SurfMinFeet),
		SurfMaxFeet:    floatOrMissing(row.SurfMaxFeet),
		SurfDisplay:    row.SurfDisplay,
		TideSummary:    row.TideSummary,
		Conditions:     row.Conditions,
		Rating:         row.Rating,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.ReportText.Valid {
		report.ReportText = &row.ReportText.String
	}
	if row.EditedBy.Valid {
		report.EditedBy = &row.EditedBy.String
	}
	if row.EditedAt.Valid {
		report.EditedAt = &row.EditedAt.Time
	}
	return report, nil
}

// UpdateReportPhysical overwrites only the measured fields and rating of an
// existing report. The narrative, override, and audit columns are not in the
// statement, so an intraday refresh cannot touch them. Returns
// domain.ErrReportNotFound when no report exists for the date.
func (s *Store) UpdateReportPhysical(ctx context.Context, p domain.ReportPhysical, updatedAt time.Time) error {
	const query = `
		UPDATE surf_reports SET
			wave_height_feet = $2,
			period_seconds = $3,
			swell_direction = $4,
			wind_speed_mph = $5,
			wind_direction = $6,
			water_temp_f = $7,
			surf_min_feet = $8,
			surf_max_feet = $9,
			surf_display = $10,
			rating = $11,
			updated_at = $12
		WHERE date = $1`

	result, err := s.db.ExecContext(ctx, query,
		p.Date,
		nullFloat(p.WaveHeightFeet), nullFloat(p.PeriodSeconds), p.SwellDirection,
		nullFloat(p.WindSpeedMph), p.WindDirection, nullFloat(p.WaterTempF),
		nullFloat(p.SurfMinFeet), nullFloat(p.SurfMaxFeet), p.SurfDisplay,
		p.Rating, updatedAt)
	if err != nil {
		return &domain.StoreError{Op: "update surf_reports physical", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &domain.StoreError{Op: "update surf_reports physical", Err: err}
	}
	if affected == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// SetReportOverride stores a manual report text with its edit audit.
func (s *Store) SetReportOverride(ctx context.Context, date time.Time, text, editedBy string, editedAt time.Time) error {
	const query = `
		UPDATE surf_reports SET
			report_text = $2,
			edited_by = $3,
			edited_at = $4,
			updated_at = $4
		WHERE date = $1`

	result, err := s.db.ExecContext(ctx, query, date, text, editedBy, editedAt)
	if err != nil {
		return &domain.StoreError{Op: "set surf_reports override", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &domain.StoreError{Op: "set surf_reports override", Err: err}
	}
	if affected == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// ClearReportOverride removes a manual report text, restoring the generated
// narrative as the display text.
func (s *Store) ClearReportOverride(ctx context.Context, date time.Time, updatedAt time.Time) error {
	const query = `
		UPDATE surf_reports SET
			report_text = NULL,
			edited_by = NULL,
			edited_at = NULL,
			updated_at = $2
		WHERE date = $1`

	result, err := s.db.ExecContext(ctx, query, date, updatedAt)
	if err != nil {
		return &domain.StoreError{Op: "clear surf_reports override", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &domain.StoreError{Op: "clear surf_reports override", Err: err}
	}
	if affected == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}
