package model

import (
	"fmt"
	"time"
)

// Prediction is the full output of one pipeline run: per-slot generation,
// demand, net position and predicted price over the next trading day.
// It is created once per run and never mutated afterwards.
type Prediction struct {
	// Times holds the 49 slot-start timestamps spanning 23:00 to 23:00
	// inclusive of the closing boundary sample.
	Times []time.Time

	// All power series are kW, index-aligned to Times.
	Solar  []float64
	Wind   []float64
	Demand []float64 // extended to match generation length
	Net    []float64 // (Solar + Wind) - Demand

	// Prices is the 48-slot system price forecast in currency/MWh.
	Prices []float64
}

// SlotCount returns the number of tradable half-hour slots (excludes the
// closing boundary sample).
func (p *Prediction) SlotCount() int {
	n := len(p.Net)
	if n > 48 {
		n = 48
	}
	return n
}

// PredictionRecord is the persisted form of a run: what was computed, when,
// and from which raw forecast. Writes are fire-and-forget.
type PredictionRecord struct {
	CalculatedAt string         `json:"datetime_calculated"`
	Prediction   PredictionDump `json:"predictions"`
	Forecast     *WeatherReport `json:"forecast,omitempty"`
}

// PredictionDump is the JSON shape of a stored prediction.
type PredictionDump struct {
	DateTime        []string  `json:"DateTime"`
	SolarPrediction []float64 `json:"SolarPrediction"`
	WindPrediction  []float64 `json:"WindPrediction"`
	TotalGenerated  []float64 `json:"TotalGenerated"`
	BuildingDemand  []float64 `json:"BuildingPrediction"`
	NetEnergy       []float64 `json:"NetEnergy"`
	BidPrice        []float64 `json:"BidPrice"`
}

// Restore rebuilds an in-memory prediction from its persisted shape.
func (d PredictionDump) Restore() (*Prediction, error) {
	p := &Prediction{
		Solar:  d.SolarPrediction,
		Wind:   d.WindPrediction,
		Demand: d.BuildingDemand,
		Net:    d.NetEnergy,
		Prices: d.BidPrice,
	}
	p.Times = make([]time.Time, len(d.DateTime))
	for i, s := range d.DateTime {
		t, err := time.Parse(TimestampFormat, s)
		if err != nil {
			return nil, fmt.Errorf("restoring prediction: bad timestamp %q: %w", s, err)
		}
		p.Times[i] = t
	}
	return p, nil
}

// Dump converts a prediction to its persisted shape.
func (p *Prediction) Dump() PredictionDump {
	d := PredictionDump{
		SolarPrediction: p.Solar,
		WindPrediction:  p.Wind,
		BuildingDemand:  p.Demand,
		NetEnergy:       p.Net,
		BidPrice:        p.Prices,
	}
	d.DateTime = make([]string, len(p.Times))
	for i, t := range p.Times {
		d.DateTime[i] = t.Format(TimestampFormat)
	}
	d.TotalGenerated = make([]float64, len(p.Solar))
	for i := range p.Solar {
		d.TotalGenerated[i] = p.Solar[i] + p.Wind[i]
	}
	return d
}
