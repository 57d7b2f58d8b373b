// Command validate performs integrity checks across the mock upstream
// fixtures generated by genmock: the NDBC buoy file, the CO-OPS tide
// payload, and the NWS forecast payload. It verifies row counts, value
// ranges, and ordering, then pushes the data through the surf math to
// confirm the fixtures produce a usable report and predictions.
//
// Usage:
//
//	go run ./cmd/validate -dir data/mock -date 2026-06-15 -days 30
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lydonmn/surf-vista/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "data/mock", "directory containing genmock fixtures")
	dateStr := flag.String("date", "2026-06-15", "anchor date the fixtures were generated for (YYYY-MM-DD)")
	days := flag.Int("days", 30, "days of buoy history the fixtures were generated with")
	flag.Parse()

	anchor, err := time.ParseInLocation("2006-01-02", *dateStr, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -date:", err)
		os.Exit(2)
	}

	os.Exit(run(*dir, anchor, *days))
}

func run(dir string, anchor time.Time, days int) int {
	// Freeze the clock at the fixture anchor so day keying and the seasonal
	// factor line up with the generated data regardless of when this runs.
	domain.SetClock(clockwork.NewFakeClockAt(anchor.Add(16 * time.Hour)))
	defer domain.SetClock(nil)

	observations := validateBuoy(dir, days)
	events := validateTides(dir)
	validateForecast(dir)
	validateSurfMath(observations, events, anchor)

	failed := 0
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}
	if failed > 0 {
		fmt.Printf("\n%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("\nall %d phases passed\n", len(phases))
	return 0
}

var phases []*phase

func newPhase(name string) *phase {
	p := &phase{name: name}
	phases = append(phases, p)
	return p
}

func validateBuoy(dir string, days int) []domain.Observation {
	p := newPhase("buoy realtime2 file")

	payload, err := os.ReadFile(filepath.Join(dir, "buoy_realtime2.txt"))
	if err != nil {
		p.errorf("read: %v", err)
		return nil
	}

	observations, err := domain.ParseBuoyReport(string(payload))
	if err != nil {
		p.errorf("parse: %v", err)
		return nil
	}

	want := days * 24
	if len(observations) != want {
		p.errorf("expected %d observations, got %d", want, len(observations))
	}

	missingWaves := 0
	for i, obs := range observations {
		if i > 0 && !obs.Time.Before(observations[i-1].Time) {
			p.errorf("row %d out of order: %s not before %s", i, obs.Time, observations[i-1].Time)
			break
		}
		if domain.IsMissing(obs.WaveHeightMeters) {
			missingWaves++
			continue
		}
		if obs.WaveHeightMeters <= 0 || obs.WaveHeightMeters > 5 {
			p.errorf("row %d wave height out of range: %.2f m", i, obs.WaveHeightMeters)
		}
	}
	if missingWaves == 0 {
		p.errorf("expected some MM sentinel rows, found none")
	}

	return observations
}

func validateTides(dir string) []domain.TideEvent {
	p := newPhase("tide predictions")

	payload, err := os.ReadFile(filepath.Join(dir, "tide_predictions.json"))
	if err != nil {
		p.errorf("read: %v", err)
		return nil
	}

	events, err := domain.ParseTidePredictions(payload)
	if err != nil {
		p.errorf("parse: %v", err)
		return nil
	}

	for i, e := range events {
		if e.HeightFeet < -1 || e.HeightFeet > 6 {
			p.errorf("event %d height out of range: %.2f ft", i, e.HeightFeet)
		}
		if i > 0 && events[i].Type == events[i-1].Type {
			p.errorf("event %d does not alternate: %s follows %s", i, events[i].Type, events[i-1].Type)
		}
	}

	summary := domain.TideSummary(events, domain.TodayEST())
	if summary == "Tide data unavailable." {
		p.errorf("no tide events land on the anchor day")
	}

	return events
}

func validateForecast(dir string) {
	p := newPhase("weather forecast")

	payload, err := os.ReadFile(filepath.Join(dir, "nws_forecast.json"))
	if err != nil {
		p.errorf("read: %v", err)
		return
	}

	periods, err := domain.ParseForecastPeriods(payload)
	if err != nil {
		p.errorf("parse: %v", err)
		return
	}

	if len(periods)%2 != 0 {
		p.errorf("expected day/night period pairs, got %d periods", len(periods))
	}
	daytime := 0
	for _, period := range periods {
		if period.IsDaytime {
			daytime++
		}
	}
	if daytime != len(periods)/2 {
		p.errorf("expected half the periods to be daytime, got %d of %d", daytime, len(periods))
	}
}

func validateSurfMath(observations []domain.Observation, events []domain.TideEvent, anchor time.Time) {
	p := newPhase("surf math over fixtures")

	if len(observations) == 0 {
		p.errorf("no observations to work with")
		return
	}

	latest := observations[0]
	physical := domain.PhysicalFromObservation(latest, domain.AdditiveRater{})
	if physical.Rating < 1 || physical.Rating > 10 {
		p.errorf("rating out of range: %d", physical.Rating)
	}
	if physical.SurfDisplay == "" {
		p.errorf("empty surf display")
	}

	// The buoy file is newest first; the predictor expects chronological order.
	history := make([]domain.Observation, len(observations))
	for i, obs := range observations {
		history[len(observations)-1-i] = obs
	}

	prediction, err := domain.PredictSurfHeight(history, &latest, 1)
	if err != nil {
		p.errorf("prediction failed: %v", err)
		return
	}
	if prediction.Confidence < 0.3 || prediction.Confidence > 0.95 {
		p.errorf("confidence out of range: %.2f", prediction.Confidence)
	}
	if prediction.MinFeet > prediction.MaxFeet {
		p.errorf("inverted prediction range: %.2f > %.2f", prediction.MinFeet, prediction.MaxFeet)
	}

	wantDate := anchor.AddDate(0, 0, 1).Format("2006-01-02")
	if got := prediction.Date.Format("2006-01-02"); got != wantDate {
		p.errorf("prediction date %s, want %s", got, wantDate)
	}

	if len(events) > 0 {
		if s := domain.TideSummary(events, latest.Date); s == "" {
			p.errorf("empty tide summary")
		}
	}
}
