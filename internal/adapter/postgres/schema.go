package postgres

import (
	"context"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// schema creates every table the service writes. Statements are idempotent so
// EnsureSchema can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS surf_conditions (
		date DATE PRIMARY KEY,
		observed_at TIMESTAMPTZ NOT NULL,
		wave_height_m DOUBLE PRECISION,
		period_s DOUBLE PRECISION,
		wind_speed_mps DOUBLE PRECISION,
		wind_dir_deg DOUBLE PRECISION,
		water_temp_c DOUBLE PRECISION,
		swell_dir_deg DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS surf_predictions (
		date DATE PRIMARY KEY,
		min_feet DOUBLE PRECISION NOT NULL,
		max_feet DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		factors JSONB,
		generated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tide_data (
		id SERIAL PRIMARY KEY,
		time TIMESTAMPTZ NOT NULL,
		date DATE NOT NULL,
		type TEXT NOT NULL,
		height_feet DOUBLE PRECISION NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tide_data_date_idx ON tide_data (date)`,
	`CREATE TABLE IF NOT EXISTS weather_forecast (
		date DATE PRIMARY KEY,
		high_temp DOUBLE PRECISION,
		low_temp DOUBLE PRECISION,
		conditions_text TEXT,
		precipitation_chance DOUBLE PRECISION,
		wind_speed TEXT,
		wind_direction TEXT,
		surf_min_feet DOUBLE PRECISION,
		surf_max_feet DOUBLE PRECISION,
		surf_display TEXT,
		prediction_source TEXT,
		prediction_confidence DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS surf_reports (
		date DATE PRIMARY KEY,
		wave_height_feet DOUBLE PRECISION,
		period_seconds DOUBLE PRECISION,
		swell_direction TEXT NOT NULL DEFAULT '',
		wind_speed_mph DOUBLE PRECISION,
		wind_direction TEXT NOT NULL DEFAULT '',
		water_temp_f DOUBLE PRECISION,
		surf_min_feet DOUBLE PRECISION,
		surf_max_feet DOUBLE PRECISION,
		surf_display TEXT NOT NULL DEFAULT '',
		tide_summary TEXT NOT NULL DEFAULT '',
		conditions TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		report_text TEXT,
		edited_by TEXT,
		edited_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates any missing tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &domain.StoreError{Op: "ensure schema", Err: err}
		}
	}
	return nil
}
