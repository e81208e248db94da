package data

import (
	"encoding/json"
	"fmt"
	"os"

	"site-autobidder/internal/model"
)

// LoadWeatherReportJSON reads a raw weather report from a fixture file. Used
// by the demo command and tests to run the pipeline offline.
func LoadWeatherReportJSON(path string) (*model.WeatherReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report model.WeatherReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to parse weather report %s: %w", path, err)
	}
	return &report, nil
}

// FixtureForecastSource serves a report loaded from disk. It implements
// pipeline.ForecastSource.
type FixtureForecastSource struct {
	Report *model.WeatherReport
}

func (f *FixtureForecastSource) FetchForecast() (*model.WeatherReport, error) {
	if f.Report == nil {
		return nil, fmt.Errorf("no fixture report loaded")
	}
	return f.Report, nil
}
