// Package forecast turns a raw 3-hourly weather report into the dense
// 30-minute series covering the next 23:00-23:00 UTC trading window.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"site-autobidder/internal/model"
)

// ErrMalformedReport indicates the weather source returned a report the
// pipeline cannot use: no samples, or a missing/unparseable data date.
var ErrMalformedReport = errors.New("malformed weather report")

// ErrWindowNotFound indicates no 23:00 boundary exists in the report's
// coverage. With a correctly stride-aligned source this cannot happen; it is
// a data-source contract violation.
var ErrWindowNotFound = errors.New("no 23:00 window boundary in forecast")

// windowSamples is the number of consecutive raw samples selected around the
// trading window: 10 three-hour steps give 30 hours of coverage, enough for
// a full 24-hour dense expansion with margin.
const windowSamples = 11

// Flatten unpacks every sample from the report's forecast blocks into a
// single ordered list.
func Flatten(report *model.WeatherReport) []model.RawSample {
	var out []model.RawSample
	for _, period := range report.SiteRep.DV.Location.Period {
		out = append(out, period.Rep...)
	}
	return out
}

// SampleTimes derives the timestamp of every raw sample from the declared
// data date plus the fixed 3-hour stride. The report's window need not start
// at a 3-hour-aligned hour; the stride applies regardless.
func SampleTimes(report *model.WeatherReport, n int) ([]time.Time, error) {
	start, err := report.DataDate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * model.ReportStride)
	}
	return out, nil
}

// cumulativeHours returns hours elapsed since midnight of the report's first
// day for each sample boundary: startHour, startHour+3, ... The extra entry
// past the last sample keeps the exact-hit search inclusive of the report
// end.
func cumulativeHours(report *model.WeatherReport, samples int) ([]int, error) {
	start, err := report.DataDate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	out := make([]int, samples+1)
	for i := range out {
		out[i] = start.Hour() + i*3
	}
	return out, nil
}

// SelectWindow locates the eleven consecutive raw samples whose expansion
// covers the next 23:00-23:00 interval, returning them with their
// timestamps. Selection prefers an exact 23:00 hit in the cumulative-hour
// series, otherwise backs up one sample from the first boundary past 23:00
// so the window start is never later than the true boundary.
func SelectWindow(report *model.WeatherReport) ([]model.RawSample, []time.Time, error) {
	samples := Flatten(report)
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("%w: report contains no forecast samples", ErrMalformedReport)
	}
	cum, err := cumulativeHours(report, len(samples))
	if err != nil {
		return nil, nil, err
	}

	start := -1
	for i, h := range cum {
		if h == 23 {
			start = i
			break
		}
	}
	if start < 0 {
		for i, h := range cum {
			if h > 23 {
				start = i - 1
				break
			}
		}
	}
	if start < 0 {
		return nil, nil, ErrWindowNotFound
	}

	end := start + windowSamples
	if end > len(samples) {
		return nil, nil, fmt.Errorf("%w: need %d samples from index %d, report has %d",
			ErrMalformedReport, windowSamples, start, len(samples))
	}

	times, err := SampleTimes(report, len(samples))
	if err != nil {
		return nil, nil, err
	}
	return samples[start:end], times[start:end], nil
}
