// Package demand estimates the building's half-hourly power draw from the
// outside temperature and office occupancy.
package demand

import (
	"fmt"
	"time"

	"site-autobidder/internal/model"
)

// slots is the number of half-hour periods in the analysis window.
const slots = 48

// HeatingLoadKW maps an outside temperature in C to the heating system's
// draw in kW. The table steps down in 5-degree bands and shuts off at 15C.
func HeatingLoadKW(tempC float64) float64 {
	switch {
	case tempC <= 0:
		return 120
	case tempC <= 5:
		return 90
	case tempC <= 10:
		return 60
	case tempC < 15:
		return 30
	default:
		return 0
	}
}

// SlotTimes returns the 48 half-hour slot starts from the given window
// start.
func SlotTimes(start time.Time) []time.Time {
	out := make([]time.Time, slots)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * 30 * time.Minute)
	}
	return out
}

// OccupancyMask returns, per half-hour slot, whether the office is staffed:
// weekdays 09:00-17:00 inclusive. Public holidays are a known gap.
func OccupancyMask(start time.Time) []bool {
	out := make([]bool, slots)
	for i, t := range SlotTimes(start) {
		out[i] = model.OfficeOccupied(t)
	}
	return out
}

// Breakdown is the per-slot composition of the building demand, all in kW.
type Breakdown struct {
	Times           []time.Time
	Heating         []float64
	DataCentre      []float64
	OfficeEquipment []float64
	Lighting        []float64
	Total           []float64
}

// Estimate computes total building demand per half-hour slot. Temperatures
// come from the interpolated forecast and are trimmed to 48 samples when the
// closing boundary sample is supplied. Heating follows the temperature
// table; the data centre runs continuously; office equipment and lighting
// draw only during occupied hours.
func Estimate(start time.Time, temperaturesC []float64, dm model.DemandModel) (*Breakdown, error) {
	if err := dm.Validate(); err != nil {
		return nil, fmt.Errorf("demand model invalid: %w", err)
	}
	if len(temperaturesC) == slots+1 {
		temperaturesC = temperaturesC[:slots]
	}
	if len(temperaturesC) != slots {
		return nil, fmt.Errorf("need %d temperature samples, got %d", slots, len(temperaturesC))
	}

	b := &Breakdown{
		Times:           SlotTimes(start),
		Heating:         make([]float64, slots),
		DataCentre:      make([]float64, slots),
		OfficeEquipment: make([]float64, slots),
		Lighting:        make([]float64, slots),
		Total:           make([]float64, slots),
	}
	mask := OccupancyMask(start)
	for i := 0; i < slots; i++ {
		b.Heating[i] = HeatingLoadKW(temperaturesC[i])
		b.DataCentre[i] = dm.DataCentreKW
		if mask[i] {
			b.OfficeEquipment[i] = dm.OfficeEquipmentKW
			b.Lighting[i] = dm.LightingKW
		}
		b.Total[i] = b.Heating[i] + b.DataCentre[i] + b.OfficeEquipment[i] + b.Lighting[i]
	}
	return b, nil
}
