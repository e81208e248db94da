package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"site-autobidder/internal/config"
	"site-autobidder/internal/data"
	"site-autobidder/internal/forecast"
)

// Snapshot fetches the current raw weather report and writes it to disk as a
// fixture for offline demo and test runs.
func main() {
	var (
		cfgPath    = flag.String("config", "config.yaml", "Path to YAML config")
		outputPath = flag.String("output", "", "Output file path (default: ./fixtures/forecast-<date>.json)")
	)
	flag.Parse()

	cfg, err := config.LoadUnchecked(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	apiKey, err := data.LoadKey(cfg.Forecast.KeyFile, "METOFFICEAPI")
	if err != nil {
		log.Fatalf("weather API key: %v", err)
	}

	client := data.NewMetOfficeClient(apiKey, cfg.Forecast.BaseURL, cfg.Forecast.SiteID)

	fmt.Printf("Fetching forecast for site %s\n", cfg.Forecast.SiteID)
	report, err := client.FetchForecast()
	if err != nil {
		log.Fatalf("Failed to fetch forecast: %v", err)
	}

	// A snapshot that can't be interpolated is useless as a fixture.
	if _, err := forecast.Interpolate(report); err != nil {
		log.Fatalf("Fetched report is not usable: %v", err)
	}

	if *outputPath == "" {
		*outputPath = filepath.Join("fixtures",
			"forecast-"+time.Now().UTC().Format("2006-01-02")+".json")
	}
	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
	if err := os.WriteFile(*outputPath, raw, 0o644); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}

	fmt.Printf("Saved report (dataDate=%s) to %s\n", report.SiteRep.DV.DataDate, *outputPath)
}
