// Package pipeline runs one full forecast-to-prediction cycle: fetch the
// raw weather report, expand it to the dense window, estimate generation and
// demand, and combine them into a net-energy prediction with prices.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"site-autobidder/internal/demand"
	"site-autobidder/internal/forecast"
	"site-autobidder/internal/model"
	"site-autobidder/internal/solar"
	"site-autobidder/internal/wind"
)

// ForecastSource fetches the raw 3-hourly weather report.
type ForecastSource interface {
	FetchForecast() (*model.WeatherReport, error)
}

// PriceSource predicts the 48 half-hourly system prices in currency/MWh for
// the trading day starting at windowStart.
type PriceSource interface {
	PriceForecast(windowStart time.Time) ([]float64, error)
}

// PredictionStore persists a completed run. Writes are fire-and-forget; the
// pipeline never reads them back.
type PredictionStore interface {
	SavePrediction(rec model.PredictionRecord) error
}

// Site bundles the static parameters every estimator needs. Each run works
// on its own copy; nothing here is mutated.
type Site struct {
	Location model.Location
	Array    model.SolarArray
	Farm     model.WindFarm
	Demand   model.DemandModel
	Curve    wind.PowerCurve
}

// Runner wires the collaborators into a runnable pipeline.
type Runner struct {
	Forecasts ForecastSource
	Prices    PriceSource
	Store     PredictionStore // optional
	Site      Site
}

// Run executes one complete cycle and returns the prediction. Any stage
// failure aborts the whole run; nothing partial is persisted.
func (r *Runner) Run() (*model.Prediction, error) {
	report, err := r.Forecasts.FetchForecast()
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	window, err := forecast.Interpolate(report)
	if err != nil {
		return nil, fmt.Errorf("interpolate forecast: %w", err)
	}

	pred, err := r.Predict(window)
	if err != nil {
		return nil, err
	}

	if r.Store != nil {
		rec := model.PredictionRecord{
			CalculatedAt: time.Now().UTC().Format(model.TimestampFormat),
			Prediction:   pred.Dump(),
			Forecast:     report,
		}
		if err := r.Store.SavePrediction(rec); err != nil {
			// Fire-and-forget: a store failure must not kill the cycle.
			log.Printf("[Pipeline] Prediction store write failed: %v", err)
		}
	}
	return pred, nil
}

// Predict runs the estimation stages over an already-interpolated window.
func (r *Runner) Predict(window model.ForecastWindow) (*model.Prediction, error) {
	solarKW, err := solar.Estimate(window, r.Site.Location, r.Site.Array)
	if err != nil {
		return nil, fmt.Errorf("solar estimate: %w", err)
	}

	curve := r.Site.Curve
	if curve == nil {
		curve = wind.DefaultPowerCurve()
	}
	windKW, err := wind.Estimate(window.WindSpeedsMS(), r.Site.Farm, curve)
	if err != nil {
		return nil, fmt.Errorf("wind estimate: %w", err)
	}

	windowStart := window[0].Time
	bd, err := demand.Estimate(windowStart, window.Temperatures(), r.Site.Demand)
	if err != nil {
		return nil, fmt.Errorf("demand estimate: %w", err)
	}

	prices, err := r.Prices.PriceForecast(windowStart)
	if err != nil {
		return nil, fmt.Errorf("price forecast: %w", err)
	}
	if len(prices) != 48 {
		return nil, fmt.Errorf("price forecast must have 48 slots, got %d", len(prices))
	}

	return Aggregate(window, solarKW, windKW, bd.Total, prices)
}

// Aggregate combines the estimator outputs into an immutable net-energy
// prediction: net[i] = (solar[i] + wind[i]) - demand[i]. Demand is one
// boundary sample shorter than generation; its last value is repeated once
// to align the series.
func Aggregate(window model.ForecastWindow, solarKW, windKW, demandKW, prices []float64) (*model.Prediction, error) {
	if len(solarKW) != len(windKW) {
		return nil, fmt.Errorf("generation series differ in length: solar=%d wind=%d", len(solarKW), len(windKW))
	}
	if len(demandKW) == len(solarKW)-1 {
		demandKW = append(append([]float64{}, demandKW...), demandKW[len(demandKW)-1])
	}
	if len(demandKW) != len(solarKW) {
		return nil, fmt.Errorf("demand length %d cannot align with generation length %d", len(demandKW), len(solarKW))
	}

	p := &model.Prediction{
		Solar:  append([]float64{}, solarKW...),
		Wind:   append([]float64{}, windKW...),
		Demand: append([]float64{}, demandKW...),
		Net:    make([]float64, len(solarKW)),
		Prices: append([]float64{}, prices...),
	}
	p.Times = make([]time.Time, len(window))
	for i, obs := range window {
		p.Times[i] = obs.Time
	}
	for i := range p.Net {
		p.Net[i] = (p.Solar[i] + p.Wind[i]) - p.Demand[i]
	}
	return p, nil
}
