package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydonmn/surf-vista/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(sqlx.NewDb(db, "sqlmock"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return store, mock
}

func testDay(day int) time.Time {
	return time.Date(2026, time.June, day, 0, 0, 0, 0, domain.ReportLocation())
}

func TestUpsertConditions_MissingValuesPersistAsNull(t *testing.T) {
	store, mock := newMockStore(t)

	observedAt := time.Date(2026, time.June, 15, 16, 50, 0, 0, time.UTC)
	obs := domain.Observation{
		Date:              testDay(15),
		Time:              observedAt,
		WaveHeightMeters:  1.5,
		PeriodSeconds:     10,
		WindSpeedMps:      domain.Missing,
		WindDirectionDeg:  310,
		WaterTempC:        domain.Missing,
		SwellDirectionDeg: 120,
	}

	mock.ExpectExec("INSERT INTO surf_conditions").
		WithArgs(obs.Date, observedAt, 1.5, 10.0, nil, 310.0, nil, 120.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertConditions(context.Background(), obs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionsHistory_NullsSurfaceAsMissing(t *testing.T) {
	store, mock := newMockStore(t)

	columns := []string{"date", "observed_at", "wave_height_m", "period_s",
		"wind_speed_mps", "wind_dir_deg", "water_temp_c", "swell_dir_deg"}
	mock.ExpectQuery("SELECT (.+) FROM surf_conditions").
		WithArgs(testDay(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(testDay(14), time.Now(), 1.4, 9.5, 4.0, 300.0, 21.0, 115.0).
			AddRow(testDay(15), time.Now(), nil, nil, 5.0, 310.0, nil, 120.0))

	history, err := store.ConditionsHistory(context.Background(), testDay(1))
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.InDelta(t, 1.4, history[0].WaveHeightMeters, 1e-9)
	assert.True(t, domain.IsMissing(history[1].WaveHeightMeters))
	assert.True(t, domain.IsMissing(history[1].PeriodSeconds))
	assert.True(t, domain.IsMissing(history[1].WaterTempC))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPrediction(t *testing.T) {
	store, mock := newMockStore(t)

	generatedAt := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)
	p := domain.Prediction{
		Date:        testDay(16),
		MinFeet:     1.5,
		MaxFeet:     2.5,
		Confidence:  0.82,
		GeneratedAt: generatedAt,
		Factors:     domain.PredictionFactors{BaselineFeet: 3.2, TrendSlope: 0.2},
	}

	mock.ExpectExec("INSERT INTO surf_predictions").
		WithArgs(p.Date, 1.5, 2.5, 0.82, sqlmock.AnyArg(), generatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpsertPrediction(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionsFrom_DecodesFactors(t *testing.T) {
	store, mock := newMockStore(t)

	columns := []string{"date", "min_feet", "max_feet", "confidence", "factors", "generated_at"}
	mock.ExpectQuery("SELECT (.+) FROM surf_predictions").
		WithArgs(testDay(16)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(testDay(16), 1.5, 2.5, 0.82, []byte(`{"baseline_feet":3.2,"trend_slope":0.2}`), time.Now()))

	predictions, err := store.PredictionsFrom(context.Background(), testDay(16))
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.InDelta(t, 3.2, predictions[0].Factors.BaselineFeet, 1e-9)
	assert.InDelta(t, 0.2, predictions[0].Factors.TrendSlope, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTides_DeleteAndInsertShareOneTx(t *testing.T) {
	store, mock := newMockStore(t)

	from, to := testDay(15), testDay(21)
	events := []domain.TideEvent{
		{Time: time.Date(2026, time.June, 15, 10, 12, 0, 0, time.UTC), Date: testDay(15), Type: domain.TideHigh, HeightFeet: 4.2},
		{Time: time.Date(2026, time.June, 15, 16, 30, 0, 0, time.UTC), Date: testDay(15), Type: domain.TideLow, HeightFeet: 0.3},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tide_data").
		WithArgs(from, to).
		WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec("INSERT INTO tide_data").
		WithArgs(events[0].Time, events[0].Date, "High", 4.2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tide_data").
		WithArgs(events[1].Time, events[1].Date, "Low", 0.3).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, store.ReplaceTides(context.Background(), from, to, events))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTides_InsertFailureRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	from, to := testDay(15), testDay(21)
	events := []domain.TideEvent{{Date: testDay(15), Type: domain.TideHigh, HeightFeet: 4.2}}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tide_data").
		WithArgs(from, to).
		WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec("INSERT INTO tide_data").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.ReplaceTides(context.Background(), from, to, events)
	require.Error(t, err)
	var storeErr *domain.StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceForecast(t *testing.T) {
	store, mock := newMockStore(t)

	confidence := 0.74
	days := []domain.ForecastDay{
		{
			Date: testDay(15), HighTemp: 82, LowTemp: 64, ConditionsText: "Sunny",
			PrecipChance: 10, WindSpeed: "10 mph", WindDirection: "NW",
			SurfMinFeet: 2.5, SurfMaxFeet: 3.0, SurfDisplay: "2.5-3.0 ft",
			Source: domain.SourceActual,
		},
		{
			Date: testDay(16), HighTemp: 80, LowTemp: 63, ConditionsText: "Cloudy",
			SurfMinFeet: 2.0, SurfMaxFeet: 3.5, SurfDisplay: "2.0-3.5 ft",
			Source: domain.SourceAIPrediction, Confidence: &confidence,
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM weather_forecast").
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("INSERT INTO weather_forecast").
		WithArgs(days[0].Date, 82.0, 64.0, "Sunny", 10.0, "10 mph", "NW",
			2.5, 3.0, "2.5-3.0 ft", "actual", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO weather_forecast").
		WithArgs(days[1].Date, 80.0, 63.0, "Cloudy", 0.0, "", "",
			2.0, 3.5, "2.0-3.5 ft", "ai_prediction", 0.74).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, store.ReplaceForecast(context.Background(), days))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReport_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM surf_reports").
		WithArgs(testDay(15)).
		WillReturnRows(sqlmock.NewRows([]string{"date"}))

	_, err := store.GetReport(context.Background(), testDay(15))
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReport_MapsOverrideColumns(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)
	columns := []string{"date", "wave_height_feet", "period_seconds", "swell_direction",
		"wind_speed_mph", "wind_direction", "water_temp_f", "surf_min_feet",
		"surf_max_feet", "surf_display", "tide_summary", "conditions", "rating",
		"report_text", "edited_by", "edited_at", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM surf_reports").
		WithArgs(testDay(15)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(testDay(15), 4.9, 10.0, "ESE", 11.2, "NW", 70.5, 2.5, 3.0,
				"2.5-3.0 ft", "High tide at 6:12 AM (4.2 ft).", "Good surf on tap today.",
				7, "Contest this weekend.", "editor@surf-vista", now, now, now))

	report, err := store.GetReport(context.Background(), testDay(15))
	require.NoError(t, err)

	require.NotNil(t, report.ReportText)
	assert.Equal(t, "Contest this weekend.", *report.ReportText)
	require.NotNil(t, report.EditedBy)
	assert.Equal(t, "editor@surf-vista", *report.EditedBy)
	require.NotNil(t, report.EditedAt)
	assert.Equal(t, "Contest this weekend.", report.DisplayText())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_DoesNotTouchOverrideColumns(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.UTC)
	report := domain.SurfReport{
		Date:           testDay(15),
		WaveHeightFeet: 4.9,
		PeriodSeconds:  10,
		SwellDirection: "ESE",
		WindSpeedMph:   11.2,
		WindDirection:  "NW",
		WaterTempF:     70.5,
		SurfMinFeet:    2.5,
		SurfMaxFeet:    3.0,
		SurfDisplay:    "2.5-3.0 ft",
		TideSummary:    "High tide at 6:12 AM (4.2 ft).",
		Conditions:     "Good surf on tap today.",
		Rating:         7,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// The upsert's column list stops at updated_at; report_text, edited_by,
	// and edited_at are never written by the generation path.
	mock.ExpectExec(`INSERT INTO surf_reports`).
		WithArgs(report.Date, 4.9, 10.0, "ESE", 11.2, "NW", 70.5, 2.5, 3.0,
			"2.5-3.0 ft", report.TideSummary, report.Conditions, 7, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SaveReport(context.Background(), report))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReportPhysical(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Date(2026, time.June, 15, 13, 0, 0, 0, time.UTC)
	physical := domain.ReportPhysical{
		Date:           testDay(15),
		WaveHeightFeet: 5.2,
		PeriodSeconds:  11,
		SwellDirection: "E",
		WindSpeedMph:   9.0,
		WindDirection:  "NW",
		WaterTempF:     70.5,
		SurfMinFeet:    2.5,
		SurfMaxFeet:    3.5,
		SurfDisplay:    "2.5-3.5 ft",
		Rating:         8,
	}

	mock.ExpectExec("UPDATE surf_reports SET").
		WithArgs(physical.Date, 5.2, 11.0, "E", 9.0, "NW", 70.5, 2.5, 3.5,
			"2.5-3.5 ft", 8, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateReportPhysical(context.Background(), physical, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReportPhysical_NoReportForDate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE surf_reports SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateReportPhysical(context.Background(), domain.ReportPhysical{Date: testDay(15)}, time.Now())
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetReportOverride(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Date(2026, time.June, 15, 14, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE surf_reports SET").
		WithArgs(testDay(15), "Contest this weekend.", "editor@surf-vista", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SetReportOverride(context.Background(), testDay(15), "Contest this weekend.", "editor@surf-vista", now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearReportOverride_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE surf_reports SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.ClearReportOverride(context.Background(), testDay(15), time.Now())
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
