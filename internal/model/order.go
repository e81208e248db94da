package model

// Direction is the side of a market order.
// Keep these values stable; they are part of the exchange wire format.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// DirectionFromNetKW maps a signed net-energy value to an order side.
// Surplus (including exactly zero) is sold; deficit is bought.
func DirectionFromNetKW(netKW float64) Direction {
	if netKW >= 0 {
		return DirectionSell
	}
	return DirectionBuy
}

// Order is one bid for a single delivery hour, in the exchange's wire shape.
// Volume is MWh rounded to 3 decimals; Price is currency/MWh rounded to 2.
type Order struct {
	ApplyingDate string    `json:"applying_date"` // "YYYY-MM-DD"
	HourID       int       `json:"hour_ID"`
	Type         Direction `json:"type"`
	Volume       float64   `json:"volume"`
	Price        float64   `json:"price"`
}
