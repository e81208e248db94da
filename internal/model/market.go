package model

// ClearoutPrice is one cleared hourly price from the exchange.
type ClearoutPrice struct {
	ApplyingDate string  `json:"applying_date"`
	HourID       int     `json:"hour_ID"`
	Price        float64 `json:"price"`
}

// SiteTelemetry is a live reading of the site's realized generation and
// demand, in kW.
type SiteTelemetry struct {
	Timestamp string  `json:"timestamp"`
	SolarKW   float64 `json:"solar_generation"`
	WindKW    float64 `json:"wind_generation"`
	DemandKW  float64 `json:"office_demand"`
}
