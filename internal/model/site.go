package model

import (
	"errors"
	"time"
)

// Location describes where the site sits. Solar position is computed in UTC;
// Timezone is carried for reporting only.
type Location struct {
	Latitude  float64
	Longitude float64
	AltitudeM float64
	Timezone  string
}

func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return errors.New("Latitude must be in [-90, 90]")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return errors.New("Longitude must be in [-180, 180]")
	}
	return nil
}

// SolarArray defines the physical parameters of the site's panel array.
// Units:
// - AreaM2: m^2
// - TiltDegrees: degrees from horizontal, south facing
// - BaseEfficiency: fraction 0..1
// - TemperatureCoeff: efficiency change per degree C above 25C (typically negative)
// - MaxOutputW: rated maximum output of the whole array, W
type SolarArray struct {
	AreaM2           float64
	TiltDegrees      float64
	BaseEfficiency   float64
	TemperatureCoeff float64
	MaxOutputW       float64
}

func (a SolarArray) Validate() error {
	if a.AreaM2 <= 0 {
		return errors.New("AreaM2 must be > 0")
	}
	if a.TiltDegrees < 0 || a.TiltDegrees > 90 {
		return errors.New("TiltDegrees must be in [0, 90]")
	}
	if a.BaseEfficiency <= 0 || a.BaseEfficiency > 1 {
		return errors.New("BaseEfficiency must be in (0, 1]")
	}
	if a.MaxOutputW <= 0 {
		return errors.New("MaxOutputW must be > 0")
	}
	return nil
}

// WindFarm defines the turbine installation.
// RotorHeightM feeds the Hellman terrain correction; Turbines scales the
// single-turbine power curve.
type WindFarm struct {
	Turbines     int
	RotorHeightM float64
}

func (f WindFarm) Validate() error {
	if f.Turbines <= 0 {
		return errors.New("Turbines must be > 0")
	}
	if f.RotorHeightM < 0 {
		return errors.New("RotorHeightM must be >= 0")
	}
	return nil
}

// DemandModel holds the per-load parameters of the building demand
// estimator. Heating follows the fixed temperature step table; the other
// loads are flat draws, two of them gated by office occupancy.
type DemandModel struct {
	DataCentreKW      float64 // always on
	OfficeEquipmentKW float64 // occupied hours only
	LightingKW        float64 // occupied hours only
}

func (d DemandModel) Validate() error {
	if d.DataCentreKW < 0 || d.OfficeEquipmentKW < 0 || d.LightingKW < 0 {
		return errors.New("demand loads must be >= 0")
	}
	return nil
}

// OfficeOccupied reports whether the office is staffed at t: weekdays
// 09:00-17:00 inclusive. Public holidays are not modelled.
func OfficeOccupied(t time.Time) bool {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	return mins >= 9*60 && mins <= 17*60
}
