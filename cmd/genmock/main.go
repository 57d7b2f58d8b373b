// Command genmock generates mock upstream fixtures for the surf pipeline
// test suites and local development: an NDBC realtime2 buoy file, a CO-OPS
// hilo tide prediction payload, and an NWS gridpoint forecast payload. It
// round-trips its own output through the domain parsers so a fixture that
// genmock writes is guaranteed to parse.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -date 2026-06-15 -days 30
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lydonmn/surf-vista/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/mock", "output directory for fixture files")
	dateStr := flag.String("date", "2026-06-15", "anchor date for the generated data (YYYY-MM-DD)")
	days := flag.Int("days", 30, "days of hourly buoy history to generate")
	flag.Parse()

	anchor, err := time.ParseInLocation("2006-01-02", *dateStr, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid -date: %w", err)
	}
	if *days < 1 {
		return fmt.Errorf("-days must be positive")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	buoyPath := filepath.Join(*outDir, "buoy_realtime2.txt")
	buoy := generateBuoyFile(anchor, *days)
	observations, err := domain.ParseBuoyReport(buoy)
	if err != nil {
		return fmt.Errorf("generated buoy fixture does not parse: %w", err)
	}
	if err := os.WriteFile(buoyPath, []byte(buoy), 0o644); err != nil {
		return err
	}
	log.Printf("buoy: %d observations -> %s", len(observations), buoyPath)

	tidePath := filepath.Join(*outDir, "tide_predictions.json")
	tide, err := generateTideFile(anchor, 7)
	if err != nil {
		return err
	}
	events, err := domain.ParseTidePredictions(tide)
	if err != nil {
		return fmt.Errorf("generated tide fixture does not parse: %w", err)
	}
	if err := os.WriteFile(tidePath, tide, 0o644); err != nil {
		return err
	}
	log.Printf("tide: %d events -> %s", len(events), tidePath)

	forecastPath := filepath.Join(*outDir, "nws_forecast.json")
	forecast, err := generateForecastFile(anchor, 7)
	if err != nil {
		return err
	}
	periods, err := domain.ParseForecastPeriods(forecast)
	if err != nil {
		return fmt.Errorf("generated forecast fixture does not parse: %w", err)
	}
	if err := os.WriteFile(forecastPath, forecast, 0o644); err != nil {
		return err
	}
	log.Printf("forecast: %d periods -> %s", len(periods), forecastPath)

	return nil
}

// generateBuoyFile writes an NDBC realtime2 standard meteorological file:
// two header lines, then hourly rows newest first. Wave heights follow a
// slow swell cycle with a touch of chop so the trend and volatility math has
// something real to chew on, and a few rows carry MM sentinels the way real
// buoy files do.
func generateBuoyFile(anchor time.Time, days int) string {
	var b strings.Builder
	b.WriteString("#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS  TIDE\n")
	b.WriteString("#yr  mo dy hr mn degT m/s  m/s  m     sec   sec degT   hPa  degC  degC  degC  nmi    ft\n")

	newest := anchor.Add(12 * time.Hour)
	total := days * 24
	for i := 0; i < total; i++ {
		ts := newest.Add(-time.Duration(i) * time.Hour)

		swell := 1.2 + 0.5*math.Sin(float64(i)/36.0)
		chop := 0.15 * math.Sin(float64(i)/5.0)
		wvht := swell + chop
		dpd := 8.5 + 2.5*math.Sin(float64(i)/48.0)
		wspd := 4.0 + 2.0*math.Sin(float64(i)/17.0)
		wdir := math.Mod(300+20*math.Sin(float64(i)/23.0), 360)
		mwd := math.Mod(110+15*math.Sin(float64(i)/31.0), 360)
		wtmp := 21.0 + 1.5*math.Sin(float64(i)/200.0)

		wvhtCol := fmt.Sprintf("%5.2f", wvht)
		dpdCol := fmt.Sprintf("%5.1f", dpd)
		wtmpCol := fmt.Sprintf("%5.1f", wtmp)
		if i%37 == 13 {
			wvhtCol = "   MM"
			dpdCol = "   MM"
		}
		if i%53 == 7 {
			wtmpCol = "   MM"
		}

		fmt.Fprintf(&b, "%d %02d %02d %02d %02d %3.0f %4.1f %4.1f %s %s %5.1f %3.0f %6.1f %5.1f %s %5.1f %4.1f %s\n",
			ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(),
			wdir, wspd, wspd+1.5, wvhtCol, dpdCol, dpd-1.2, mwd,
			1015.0+3*math.Sin(float64(i)/60.0), 22.0, wtmpCol, 18.0, 10.0, "MM")
	}
	return b.String()
}

type tidePrediction struct {
	T    string `json:"t"`
	Type string `json:"type"`
	V    string `json:"v"`
}

// generateTideFile writes a CO-OPS hilo predictions payload: four extrema
// per day on the roughly 6h12m semidiurnal beat.
func generateTideFile(anchor time.Time, days int) ([]byte, error) {
	start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 24, 0, 0, domain.ReportLocation())
	end := start.AddDate(0, 0, days)

	var predictions []tidePrediction
	high := true
	for ts := start; ts.Before(end); ts = ts.Add(6*time.Hour + 12*time.Minute) {
		height := 0.4
		kind := "L"
		if high {
			height = 4.1 + 0.5*math.Sin(float64(ts.Unix()%86400)/13750.0)
			kind = "H"
		}
		high = !high
		predictions = append(predictions, tidePrediction{
			T:    ts.Format("2006-01-02 15:04"),
			Type: kind,
			V:    fmt.Sprintf("%.3f", height),
		})
	}

	return json.MarshalIndent(map[string]any{"predictions": predictions}, "", "  ")
}

// generateForecastFile writes an NWS gridpoint forecast payload with one
// daytime and one overnight period per day.
func generateForecastFile(anchor time.Time, days int) ([]byte, error) {
	summaries := []string{"Sunny", "Mostly Sunny", "Partly Cloudy", "Chance Showers", "Mostly Clear"}

	type periodJSON struct {
		Number        int     `json:"number"`
		Name          string  `json:"name"`
		StartTime     string  `json:"startTime"`
		EndTime       string  `json:"endTime"`
		IsDaytime     bool    `json:"isDaytime"`
		Temperature   float64 `json:"temperature"`
		ShortForecast string  `json:"shortForecast"`
		WindSpeed     string  `json:"windSpeed"`
		WindDirection string  `json:"windDirection"`
		Precipitation struct {
			Value *float64 `json:"value"`
		} `json:"probabilityOfPrecipitation"`
	}

	var periods []periodJSON
	for day := 0; day < days; day++ {
		date := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, domain.ReportLocation()).AddDate(0, 0, day)
		precip := float64((day * 13) % 60)

		dayPeriod := periodJSON{
			Number:        day*2 + 1,
			Name:          date.Weekday().String(),
			StartTime:     date.Add(6 * time.Hour).Format(time.RFC3339),
			EndTime:       date.Add(18 * time.Hour).Format(time.RFC3339),
			IsDaytime:     true,
			Temperature:   78 + 4*math.Sin(float64(day)),
			ShortForecast: summaries[day%len(summaries)],
			WindSpeed:     "10 to 15 mph",
			WindDirection: "SW",
		}
		dayPeriod.Precipitation.Value = &precip

		nightPeriod := periodJSON{
			Number:        day*2 + 2,
			Name:          date.Weekday().String() + " Night",
			StartTime:     date.Add(18 * time.Hour).Format(time.RFC3339),
			EndTime:       date.AddDate(0, 0, 1).Add(6 * time.Hour).Format(time.RFC3339),
			Temperature:   66 + 3*math.Sin(float64(day)),
			ShortForecast: "Mostly Clear",
			WindSpeed:     "5 to 10 mph",
			WindDirection: "W",
		}

		periods = append(periods, dayPeriod, nightPeriod)
	}

	return json.MarshalIndent(map[string]any{
		"properties": map[string]any{"periods": periods},
	}, "", "  ")
}
