// Package wind estimates turbine power output from the dense wind-speed
// series.
package wind

import (
	"errors"
	"fmt"
	"math"

	"site-autobidder/internal/model"
)

// ErrInvalidInput indicates a physically impossible input: a negative wind
// speed or rotor height.
var ErrInvalidInput = errors.New("invalid wind input")

// hellmanExponent is the empirical correction for wind-speed variation with
// height above ground, for static air above inhabited areas.
const hellmanExponent = 0.34

// maxSpeedMS caps the corrected wind speed; the power curve is not defined
// beyond it.
const maxSpeedMS = 30.0

// PowerCurve maps a corrected wind speed in m/s to a single turbine's output
// in kW. The production curve is a pre-fitted artifact; implementations are
// injected so tests can substitute deterministic curves.
type PowerCurve interface {
	Power(speedMS float64) float64
}

// TablePowerCurve interpolates linearly between datasheet points. Speeds are
// m/s ascending; output below the first point and above the last is clamped
// to the boundary values.
type TablePowerCurve struct {
	SpeedsMS []float64
	PowerKW  []float64
}

func (c *TablePowerCurve) Power(speedMS float64) float64 {
	n := len(c.SpeedsMS)
	if n == 0 {
		return 0
	}
	if speedMS <= c.SpeedsMS[0] {
		return c.PowerKW[0]
	}
	if speedMS >= c.SpeedsMS[n-1] {
		return c.PowerKW[n-1]
	}
	for i := 1; i < n; i++ {
		if speedMS <= c.SpeedsMS[i] {
			frac := (speedMS - c.SpeedsMS[i-1]) / (c.SpeedsMS[i] - c.SpeedsMS[i-1])
			return c.PowerKW[i-1] + frac*(c.PowerKW[i]-c.PowerKW[i-1])
		}
	}
	return c.PowerKW[n-1]
}

// DefaultPowerCurve is the fitted curve for the site's 850kW-class turbines:
// cut-in near 3 m/s, rated output from about 14 m/s.
func DefaultPowerCurve() PowerCurve {
	return &TablePowerCurve{
		SpeedsMS: []float64{0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 30},
		PowerKW:  []float64{0, 0, 35, 85, 160, 255, 375, 500, 620, 720, 790, 830, 850, 850},
	}
}

// Estimate converts a wind-speed series in m/s into farm output in kW per
// sample: Hellman height correction, 30 m/s clip, per-turbine curve
// evaluation, scaled by the active turbine count.
func Estimate(speedsMS []float64, farm model.WindFarm, curve PowerCurve) ([]float64, error) {
	if err := farm.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if curve == nil {
		return nil, fmt.Errorf("%w: power curve is nil", ErrInvalidInput)
	}
	for i, s := range speedsMS {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative wind speed %.3f at index %d", ErrInvalidInput, s, i)
		}
	}

	correction := math.Pow(farm.RotorHeightM/10, hellmanExponent)
	out := make([]float64, len(speedsMS))
	for i, s := range speedsMS {
		corrected := s * correction
		if corrected > maxSpeedMS {
			corrected = maxSpeedMS
		}
		out[i] = float64(farm.Turbines) * curve.Power(corrected)
	}
	return out, nil
}
