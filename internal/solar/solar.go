package solar

import (
	"fmt"
	"math"

	"site-autobidder/internal/model"
)

// referenceTempC is the cell temperature at which panels deliver their base
// efficiency.
const referenceTempC = 25.0

// TemperatureEfficiency returns the effective panel efficiency at an outside
// temperature: the base efficiency shifted by the temperature coefficient
// per degree away from the 25C reference.
func TemperatureEfficiency(baseEff, tempCoeff, temperatureC float64) float64 {
	return baseEff + (temperatureC-referenceTempC)*tempCoeff
}

// WeatherFactor maps a weather-type code to an irradiance attenuation
// multiplier. Codes 0-1 are clear, 2/3/5/8 partly cloudy, the heavy set
// overcast/precipitation, and the remainder effectively opaque. A code
// appearing in both the heavy and opaque sets resolves to the heavy
// multiplier; the source data's membership overlap is deliberate and kept
// as-is.
func WeatherFactor(code int) float64 {
	switch code {
	case 0, 1:
		return 1.0
	case 2, 3, 5, 8:
		return 0.5
	case 6, 7, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 28, 29, 30:
		return 0.1
	case 4, 19, 20, 21, 22, 23, 24, 25, 26, 27:
		return 0.0
	}
	return 0.0
}

// IncidentPower returns the clear-sky power in W falling on the tilted array
// at the observation's timestamp: GHI projected onto the panel plane and
// scaled by the array area. Below the horizon the incident power is zero.
func IncidentPower(obs model.Observation, loc model.Location, array model.SolarArray) float64 {
	elev := solarElevation(obs.Time, loc.Latitude, loc.Longitude)
	sinElev := math.Sin(deg2rad(elev))
	if sinElev <= 0 {
		return 0
	}
	ghi := clearSkyGHI(elev)
	flux := ghi * math.Sin(deg2rad(elev)+deg2rad(array.TiltDegrees)) / sinElev
	return flux * array.AreaM2
}

// Estimate predicts the array's energy output per half-hour slot in kW for
// the given dense window. Instantaneous output is incident power scaled by
// temperature-adjusted efficiency and the weather multiplier, clamped to
// [0, rated max]; each slot's energy is the trapezoidal integral of the
// piecewise-linear power curve over its 30 minutes. The closing 23:00-00:00
// interval has no successor sample and is fixed at zero by convention.
func Estimate(window model.ForecastWindow, loc model.Location, array model.SolarArray) ([]float64, error) {
	if err := array.Validate(); err != nil {
		return nil, fmt.Errorf("solar array invalid: %w", err)
	}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("location invalid: %w", err)
	}
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("forecast window invalid: %w", err)
	}

	instantaneous := make([]float64, len(window))
	for i, obs := range window {
		incident := IncidentPower(obs, loc, array)
		eff := TemperatureEfficiency(array.BaseEfficiency, array.TemperatureCoeff, obs.Temperature)
		p := incident * eff * WeatherFactor(obs.WeatherCode)
		if p < 0 {
			p = 0
		}
		if p > array.MaxOutputW {
			p = array.MaxOutputW
		}
		instantaneous[i] = p
	}

	// Integrate each half-hour segment of the piecewise-linear power
	// profile: 0.5h * mean of the two bounding samples, in Wh.
	out := make([]float64, len(window))
	for i := 0; i < len(instantaneous)-1; i++ {
		out[i] = 0.25 * (instantaneous[i] + instantaneous[i+1])
	}
	out[len(out)-1] = 0

	// Wh to kWh for output.
	for i := range out {
		out[i] /= 1000
	}
	return out, nil
}
