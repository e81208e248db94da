// Package solar estimates half-hourly solar array output from the dense
// weather window, a site location and the array's physical parameters.
package solar

import (
	"math"
	"time"
)

// solarElevation returns the apparent solar elevation angle in degrees at
// the given UTC instant and location, using the NOAA low-accuracy solar
// position algorithm. Accuracy is a fraction of a degree, which is plenty
// for clear-sky power estimation.
func solarElevation(t time.Time, latitude, longitude float64) float64 {
	t = t.UTC()

	// Fractional year in radians.
	start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	day := t.Sub(start).Hours()/24 + 1
	gamma := 2 * math.Pi / 365 * (day - 1 + (float64(t.Hour())-12)/24)

	// Equation of time (minutes) and solar declination (radians).
	eqTime := 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) -
		0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) -
		0.040849*math.Sin(2*gamma))
	decl := 0.006918 -
		0.399912*math.Cos(gamma) +
		0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) +
		0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) +
		0.00148*math.Sin(3*gamma)

	// True solar time in minutes, then hour angle in degrees.
	minutes := float64(t.Hour())*60 + float64(t.Minute()) + float64(t.Second())/60
	trueSolar := minutes + eqTime + 4*longitude
	hourAngle := trueSolar/4 - 180

	latRad := deg2rad(latitude)
	haRad := deg2rad(hourAngle)
	cosZenith := math.Sin(latRad)*math.Sin(decl) + math.Cos(latRad)*math.Cos(decl)*math.Cos(haRad)
	if cosZenith > 1 {
		cosZenith = 1
	}
	if cosZenith < -1 {
		cosZenith = -1
	}
	zenith := rad2deg(math.Acos(cosZenith))
	elevation := 90 - zenith

	// Approximate atmospheric refraction near the horizon.
	if elevation > -0.575 && elevation < 85 {
		te := math.Tan(deg2rad(elevation))
		var refraction float64
		switch {
		case elevation > 5:
			refraction = 58.1/te - 0.07/(te*te*te) + 0.000086/math.Pow(te, 5)
		case elevation > -0.575:
			refraction = 1735 + elevation*(-518.2+elevation*(103.4+elevation*(-12.79+elevation*0.711)))
		}
		elevation += refraction / 3600
	}
	return elevation
}

// clearSkyGHI returns the global horizontal irradiance in W/m^2 under a
// cloudless sky for a given solar elevation, using the Haurwitz model.
// Below the horizon the irradiance is zero.
func clearSkyGHI(elevationDeg float64) float64 {
	sinElev := math.Sin(deg2rad(elevationDeg))
	if sinElev <= 0 {
		return 0
	}
	return 1098 * sinElev * math.Exp(-0.057/sinElev)
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
