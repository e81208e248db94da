package analysis

import (
	"site-autobidder/internal/model"
)

// SettlementLine is one delivered hour of a settled order day.
// This is the primary artifact for "what happened" to a submitted batch.
type SettlementLine struct {
	HourID int

	Direction model.Direction

	VolumeMWh    float64
	BidPrice     float64
	ClearedPrice float64
	RevenueCcy   float64
	Cleared      bool
}

// Settlement is a day of orders valued at the exchange's cleared prices.
type Settlement struct {
	ApplyingDate string
	Lines        []SettlementLine

	TotalRevenue float64
	ClearedHours int
}

// Settle values a submitted order batch against the cleared hourly prices
// for its delivery date. SELL hours earn volume x price, BUY hours pay it.
// Hours with no published price are kept in the ledger but carry no revenue.
func Settle(applyingDate string, orders []model.Order, cleared []model.ClearoutPrice) Settlement {
	priceByHour := make(map[int]float64, len(cleared))
	for _, c := range cleared {
		if c.ApplyingDate == applyingDate {
			priceByHour[c.HourID] = c.Price
		}
	}

	s := Settlement{ApplyingDate: applyingDate}
	for _, o := range orders {
		if o.ApplyingDate != applyingDate {
			continue
		}
		line := SettlementLine{
			HourID:    o.HourID,
			Direction: o.Type,
			VolumeMWh: o.Volume,
			BidPrice:  o.Price,
		}
		if price, ok := priceByHour[o.HourID]; ok {
			line.Cleared = true
			line.ClearedPrice = price
			line.RevenueCcy = o.Volume * price
			if o.Type == model.DirectionBuy {
				line.RevenueCcy = -line.RevenueCcy
			}
			s.TotalRevenue += line.RevenueCcy
			s.ClearedHours++
		}
		s.Lines = append(s.Lines, line)
	}
	return s
}
