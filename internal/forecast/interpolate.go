package forecast

import (
	"fmt"
	"time"

	"site-autobidder/internal/model"
)

// intermediateSlots is the number of 30-minute slots emitted between
// consecutive raw samples (0.5h, 1.0h, 1.5h, 2.0h, 2.5h offsets).
const intermediateSlots = 5

// Interpolate expands the selected raw window into a dense 30-minute series
// and trims it to exactly one trading day: 23:00 through the closing 23:00
// boundary sample inclusive.
func Interpolate(report *model.WeatherReport) (model.ForecastWindow, error) {
	samples, times, err := SelectWindow(report)
	if err != nil {
		return nil, err
	}
	dense, err := expand(samples, times)
	if err != nil {
		return nil, err
	}
	return cutWindow(dense)
}

// expand emits each raw sample followed by five interpolated slots toward
// the next sample. The final raw sample has no successor and is not
// expanded.
func expand(samples []model.RawSample, times []time.Time) ([]model.Observation, error) {
	dense := make([]model.Observation, 0, (len(samples)-1)*(intermediateSlots+1))
	for i := 0; i < len(samples)-1; i++ {
		curr, err := model.ParseObservation(samples[i], times[i])
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %v", ErrMalformedReport, i, err)
		}
		next, err := model.ParseObservation(samples[i+1], times[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %v", ErrMalformedReport, i+1, err)
		}

		dense = append(dense, curr)
		for k := 0; k < intermediateSlots; k++ {
			at := times[i].Add(time.Duration(k+1) * 30 * time.Minute)
			dense = append(dense, interpolateSlot(curr, next, k, at))
		}
	}
	return dense, nil
}

// interpolateSlot builds the k-th intermediate observation between curr and
// next. Continuous fields move linearly with weight (k+1)/6 of the absolute
// difference, toward the next value. Discrete fields step: the first three
// slots keep the current value, the last two take the next (the midpoint
// slot belongs to "current").
func interpolateSlot(curr, next model.Observation, k int, at time.Time) model.Observation {
	w := float64(k+1) / float64(intermediateSlots+1)

	obs := model.Observation{
		Time:             at,
		FeelsLike:        lerpToward(curr.FeelsLike, next.FeelsLike, w),
		Gust:             lerpToward(curr.Gust, next.Gust, w),
		Humidity:         lerpToward(curr.Humidity, next.Humidity, w),
		PrecipProb:       lerpToward(curr.PrecipProb, next.PrecipProb, w),
		WindSpeed:        lerpToward(curr.WindSpeed, next.WindSpeed, w),
		Temperature:      lerpToward(curr.Temperature, next.Temperature, w),
		PressureTendency: lerpToward(curr.PressureTendency, next.PressureTendency, w),
	}
	if k <= intermediateSlots/2 {
		obs.WindDirection = curr.WindDirection
		obs.Visibility = curr.Visibility
		obs.WeatherCode = curr.WeatherCode
		obs.UVIndex = curr.UVIndex
	} else {
		obs.WindDirection = next.WindDirection
		obs.Visibility = next.Visibility
		obs.WeatherCode = next.WeatherCode
		obs.UVIndex = next.UVIndex
	}
	return obs
}

// lerpToward moves from a toward b by weight w of the absolute difference.
// The direction of change decides the sign; the magnitude formula is the
// same either way.
func lerpToward(a, b, w float64) float64 {
	diff := b - a
	if diff < 0 {
		diff = -diff
		return a - diff*w
	}
	return a + diff*w
}

// cutWindow slices the dense series to the exact trading-day boundary by
// locating the first and third occurrences of hour 23: the start slot, its
// 23:30 neighbour, then the closing boundary a day later.
func cutWindow(dense []model.Observation) (model.ForecastWindow, error) {
	var idxs []int
	for i, obs := range dense {
		if obs.Time.Hour() == 23 {
			idxs = append(idxs, i)
			if len(idxs) == 3 {
				break
			}
		}
	}
	if len(idxs) < 3 {
		return nil, ErrWindowNotFound
	}
	window := model.ForecastWindow(dense[idxs[0] : idxs[2]+1])
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
	}
	return window, nil
}
