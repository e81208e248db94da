package models

import "site-autobidder/internal/model"

// PredictionResponse wraps the most recent stored pipeline run.
type PredictionResponse struct {
	CalculatedAt string               `json:"calculated_at"`
	Prediction   model.PredictionDump `json:"prediction"`
}

// OrdersResponse wraps the most recent submitted order batch.
type OrdersResponse struct {
	SubmittedAt string        `json:"submitted_at"`
	Accepted    int           `json:"accepted"`
	Orders      []model.Order `json:"orders"`
}

// SummaryResponse reports day-level statistics over the latest prediction.
type SummaryResponse struct {
	CalculatedAt string  `json:"calculated_at"`
	MinNetKW     float64 `json:"min_net_kw"`
	MaxNetKW     float64 `json:"max_net_kw"`
	MeanNetKW    float64 `json:"mean_net_kw"`
	P05NetKW     float64 `json:"p05_net_kw"`
	P95NetKW     float64 `json:"p95_net_kw"`
	SurplusSlots int     `json:"surplus_slots"`
	DeficitSlots int     `json:"deficit_slots"`
	NetEnergyKWh float64 `json:"net_energy_kwh"`
	MeanPriceMWh float64 `json:"mean_price_mwh"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
