package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Observation is a single timestamped weather reading at 30-minute
// resolution. Continuous fields are interpolated between raw samples;
// categorical fields are stepped.
type Observation struct {
	Time time.Time

	WindDirection    string  // 16-point compass ("SW")
	FeelsLike        float64 // C
	Gust             float64 // mph
	Humidity         float64 // %
	PrecipProb       float64 // %
	WindSpeed        float64 // mph
	Temperature      float64 // C
	Visibility       string  // categorical ("GO", "VG", ...)
	WeatherCode      int     // discrete enum 0-30
	UVIndex          int
	PressureTendency float64
}

// ParseObservation converts a raw string-keyed sample into a typed
// observation at the given timestamp. Missing fields default to their zero
// value; malformed numerics are an input contract violation.
func ParseObservation(s RawSample, at time.Time) (Observation, error) {
	obs := Observation{
		Time:          at,
		WindDirection: s["D"],
		Visibility:    s["V"],
	}
	var err error
	if obs.FeelsLike, err = sampleFloat(s, "F"); err != nil {
		return Observation{}, err
	}
	if obs.Gust, err = sampleFloat(s, "G"); err != nil {
		return Observation{}, err
	}
	if obs.Humidity, err = sampleFloat(s, "H"); err != nil {
		return Observation{}, err
	}
	if obs.PrecipProb, err = sampleFloat(s, "Pp"); err != nil {
		return Observation{}, err
	}
	if obs.WindSpeed, err = sampleFloat(s, "S"); err != nil {
		return Observation{}, err
	}
	if obs.Temperature, err = sampleFloat(s, "T"); err != nil {
		return Observation{}, err
	}
	if obs.PressureTendency, err = sampleFloat(s, "$"); err != nil {
		return Observation{}, err
	}
	if obs.WeatherCode, err = sampleInt(s, "W"); err != nil {
		return Observation{}, err
	}
	if obs.UVIndex, err = sampleInt(s, "U"); err != nil {
		return Observation{}, err
	}
	return obs, nil
}

func sampleFloat(s RawSample, key string) (float64, error) {
	raw, ok := s[key]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid value %q", key, raw)
	}
	return v, nil
}

func sampleInt(s RawSample, key string) (int, error) {
	raw, ok := s[key]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %s: invalid value %q", key, raw)
	}
	return v, nil
}

// ForecastWindow is the dense 30-minute series spanning one 23:00 UTC to
// 23:00 UTC trading window: 48 slots, plus an optional inclusive boundary
// sample kept until downstream trimming.
type ForecastWindow []Observation

// Validate checks the window invariants: 48 or 49 entries, strictly
// increasing timestamps at 30-minute steps, starting at hour 23 on the
// half-hour.
func (w ForecastWindow) Validate() error {
	if len(w) != 48 && len(w) != 49 {
		return fmt.Errorf("window must have 48 or 49 observations, got %d", len(w))
	}
	first := w[0].Time
	if first.Hour() != 23 {
		return fmt.Errorf("window must start at hour 23, got %s", first.Format(TimestampFormat))
	}
	if m := first.Minute(); m != 0 && m != 30 {
		return errors.New("window must start on a half-hour boundary")
	}
	for i := 1; i < len(w); i++ {
		if got := w[i].Time.Sub(w[i-1].Time); got != 30*time.Minute {
			return fmt.Errorf("observations %d..%d are %s apart, want 30m", i-1, i, got)
		}
	}
	return nil
}

// Temperatures returns the temperature series, trimmed to 48 samples when
// the inclusive boundary sample is present.
func (w ForecastWindow) Temperatures() []float64 {
	n := len(w)
	if n > 48 {
		n = 48
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = w[i].Temperature
	}
	return out
}

// WindSpeedsMS returns the wind-speed series converted from mph to m/s.
func (w ForecastWindow) WindSpeedsMS() []float64 {
	out := make([]float64, len(w))
	for i, obs := range w {
		out[i] = obs.WindSpeed * MphToMS
	}
	return out
}

// MphToMS converts miles per hour to metres per second.
const MphToMS = 0.44704
