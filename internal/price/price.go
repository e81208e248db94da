// Package price builds the half-hourly system-price forecast the bidder
// quotes against.
package price

import (
	"fmt"
	"log"
	"time"

	"site-autobidder/internal/data"
)

// slots is the number of settlement periods in a trading day.
const slots = 48

// MarketSource is the slice of the market client the forecaster needs.
type MarketSource interface {
	SystemPrices(fromDate, toDate string) ([]data.SystemPriceRow, error)
}

// Forecaster predicts tomorrow's system prices from the most recent
// settled day: each period's forecast is that period's last observed system
// sell price. Naive, but unbiased enough for directional bidding, and it
// degrades gracefully when periods are missing (gap-filled from the
// neighbouring period).
type Forecaster struct {
	Market MarketSource
}

// PriceForecast returns 48 prices in currency/MWh for the trading day
// starting at windowStart (a 23:00 UTC boundary).
func (f *Forecaster) PriceForecast(windowStart time.Time) ([]float64, error) {
	// The most recent fully settled day is the day before the window opens.
	day := windowStart.UTC().AddDate(0, 0, -1).Format("2006-01-02")
	rows, err := f.Market.SystemPrices(day, day)
	if err != nil {
		return nil, fmt.Errorf("system prices for %s: %w", day, err)
	}

	byPeriod := make(map[int]float64, slots)
	for _, row := range rows {
		if row.SettlementPeriod < 1 || row.SettlementPeriod > slots {
			continue
		}
		// Later rows are newer revisions; keep the last one seen.
		byPeriod[row.SettlementPeriod] = row.SellPrice
	}
	if len(byPeriod) == 0 {
		return nil, fmt.Errorf("no usable settlement periods in system prices for %s", day)
	}

	// Forward-fill gaps; leading gaps take the first known price.
	first := 0.0
	for p := 1; p <= slots; p++ {
		if v, ok := byPeriod[p]; ok {
			first = v
			break
		}
	}
	out := make([]float64, slots)
	filled := 0
	last := first
	for p := 1; p <= slots; p++ {
		if v, ok := byPeriod[p]; ok {
			last = v
			filled++
		}
		out[p-1] = last
	}
	if filled < slots {
		log.Printf("[Price] Forecast for %s gap-filled %d of %d periods", day, slots-filled, slots)
	}
	return out, nil
}

// Fixed is a flat price source for offline runs and tests.
type Fixed struct {
	PriceMWh float64
}

func (f *Fixed) PriceForecast(time.Time) ([]float64, error) {
	out := make([]float64, slots)
	for i := range out {
		out[i] = f.PriceMWh
	}
	return out, nil
}
