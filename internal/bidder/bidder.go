// Package bidder converts per-slot net-energy predictions and price
// forecasts into directional market orders.
package bidder

import (
	"fmt"
	"math"

	"site-autobidder/internal/model"
)

// GuaranteedSupplyRate is the fixed tariff in currency/MWh applied to every
// BUY order, regardless of the forecast price.
const GuaranteedSupplyRate = 150.0

// MakeOrder builds a single order for one delivery slot. Surplus energy
// (net >= 0) is sold at the forecast price; deficits are bought at the
// guaranteed-supply rate. Volume is the absolute net energy converted from
// kW to MWh.
func MakeOrder(applyingDate string, hourID int, netKW, priceMWh float64) model.Order {
	direction := model.DirectionFromNetKW(netKW)
	if direction == model.DirectionBuy {
		priceMWh = GuaranteedSupplyRate
	}
	return model.Order{
		ApplyingDate: applyingDate,
		HourID:       hourID,
		Type:         direction,
		Volume:       round3(math.Abs(netKW) / 1000),
		Price:        round2(priceMWh),
	}
}

// MakeOrders builds one order per slot from parallel input slices. The
// slices must share one length; a mismatch is an input contract violation.
func MakeOrders(dates []string, hourIDs []int, netKW, priceMWh []float64) ([]model.Order, error) {
	n := len(dates)
	if len(hourIDs) != n || len(netKW) != n || len(priceMWh) != n {
		return nil, fmt.Errorf("mismatched order inputs: dates=%d hours=%d net=%d prices=%d",
			len(dates), len(hourIDs), len(netKW), len(priceMWh))
	}
	orders := make([]model.Order, n)
	for i := 0; i < n; i++ {
		orders[i] = MakeOrder(dates[i], hourIDs[i], netKW[i], priceMWh[i])
	}
	return orders, nil
}

// PairHourly folds 48 half-hour slots into 24 delivery hours: net energy per
// hour is the sum of its two half-hour slots, the price is taken from the
// first slot of each hour.
func PairHourly(netKW, priceMWh []float64) (hourlyNet, hourlyPrice []float64, err error) {
	if len(netKW) < 48 || len(priceMWh) < 48 {
		return nil, nil, fmt.Errorf("need 48 half-hour slots, got net=%d prices=%d", len(netKW), len(priceMWh))
	}
	hourlyNet = make([]float64, 24)
	hourlyPrice = make([]float64, 24)
	for h := 0; h < 24; h++ {
		hourlyNet[h] = netKW[2*h] + netKW[2*h+1]
		hourlyPrice[h] = priceMWh[2*h]
	}
	return hourlyNet, hourlyPrice, nil
}

// DayOrders builds the 24 hourly orders for a delivery date from full-day
// half-hour series. Hour IDs run 1-24.
func DayOrders(applyingDate string, netKW, priceMWh []float64) ([]model.Order, error) {
	hourlyNet, hourlyPrice, err := PairHourly(netKW, priceMWh)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 24)
	hours := make([]int, 24)
	for h := 0; h < 24; h++ {
		dates[h] = applyingDate
		hours[h] = h + 1
	}
	return MakeOrders(dates, hours, hourlyNet, hourlyPrice)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
