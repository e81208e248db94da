package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"site-autobidder/internal/model"
)

// ExchangeClient talks to the trading exchange: order submission, cleared
// prices, and the site telemetry feed it also hosts.
type ExchangeClient struct {
	Key     string
	BaseURL string
	SiteID  string
	Client  *http.Client
}

// NewExchangeClient creates an exchange client for the given endpoint and
// auth key.
func NewExchangeClient(key, baseURL, siteID string) *ExchangeClient {
	return &ExchangeClient{
		Key:     key,
		BaseURL: baseURL,
		SiteID:  siteID,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type submitRequest struct {
	Key    string        `json:"key"`
	Orders []model.Order `json:"orders"`
}

type submitResponse struct {
	Accepted int    `json:"accepted"`
	Message  string `json:"message"`
}

// SubmitOrders posts a day's orders and returns the exchange's accepted
// count. A rejection message or zero acceptances is an error: the cycle
// must not treat a refused book as submitted.
func (c *ExchangeClient) SubmitOrders(orders []model.Order) (int, error) {
	if len(orders) == 0 {
		return 0, fmt.Errorf("no orders to submit")
	}
	payload, err := json.Marshal(submitRequest{Key: c.Key, Orders: orders})
	if err != nil {
		return 0, fmt.Errorf("failed to encode orders: %w", err)
	}

	log.Printf("[Exchange] Request: POST /auction/bidding/set (%d orders, date=%s)", len(orders), orders[0].ApplyingDate)
	start := time.Now()
	resp, err := c.Client.Post(c.BaseURL+"/auction/bidding/set", "application/json", bytes.NewReader(payload))
	duration := time.Since(start)
	if err != nil {
		log.Printf("[Exchange] Request failed: %v (duration: %v)", err, duration)
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Exchange] Response: %d %s (duration: %v)", resp.StatusCode, resp.Status, duration)
	if resp.StatusCode != http.StatusOK {
		return 0, &APIError{
			Service:    "exchange",
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var result submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Message != "" {
		return result.Accepted, &APIError{
			Service: "exchange",
			Code:    "ORDERS_REJECTED",
			Message: result.Message,
		}
	}
	if result.Accepted < 1 {
		return 0, &APIError{
			Service: "exchange",
			Code:    "ORDERS_REJECTED",
			Message: "exchange accepted no orders",
		}
	}
	log.Printf("[Exchange] Accepted %d/%d orders", result.Accepted, len(orders))
	return result.Accepted, nil
}

// ClearoutPrices fetches the cleared hourly prices between two dates
// inclusive.
func (c *ExchangeClient) ClearoutPrices(startDate, endDate string) ([]model.ClearoutPrice, error) {
	u, err := url.Parse(c.BaseURL + "/auction/market/clearout-prices")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	u.RawQuery = q.Encode()

	log.Printf("[Exchange] Request: GET %s (start=%s, end=%s)", u.Path, startDate, endDate)
	resp, err := c.Client.Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Service:    "exchange",
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var prices []model.ClearoutPrice
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, fmt.Errorf("failed to decode clearout prices: %w", err)
	}
	if len(prices) == 0 {
		return nil, &APIError{Service: "exchange", Code: "NO_DATA", Message: "no clearout prices returned"}
	}
	return prices, nil
}

type telemetryElement struct {
	Power float64 `json:"power"`
}

type telemetryResponse struct {
	Elements map[string]telemetryElement `json:"elements"`
}

// Telemetry labels for the site's metered elements.
var (
	solarLabels  = []string{"Solar Generator"}
	windLabels   = []string{"Wind Generator 1", "Wind Generator 2", "Wind Generator 3", "Wind Generator 4", "Wind Generator A", "Wind Generator B"}
	demandLabels = []string{"HQ", "Computing Centre"}
)

// LiveTelemetry reads the site's realized generation and demand in kW from
// the exchange's simulation feed.
func (c *ExchangeClient) LiveTelemetry() (*model.SiteTelemetry, error) {
	resp, err := c.Client.Get(c.BaseURL + "/sim/" + c.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Service:    "exchange",
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var result telemetryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry: %w", err)
	}
	if len(result.Elements) == 0 {
		return nil, &APIError{Service: "exchange", Code: "NO_DATA", Message: "telemetry feed returned no elements"}
	}

	t := &model.SiteTelemetry{}
	for _, label := range solarLabels {
		t.SolarKW += result.Elements[label].Power / 1000
	}
	for _, label := range windLabels {
		t.WindKW += result.Elements[label].Power / 1000
	}
	for _, label := range demandLabels {
		t.DemandKW += result.Elements[label].Power / 1000
	}
	return t, nil
}
