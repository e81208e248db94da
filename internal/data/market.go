package data

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ReportDescriptors lists the supported market report codes. Requests for
// any other code are rejected before touching the network.
var ReportDescriptors = map[string]string{
	"B1770": "Imbalance prices",
	"B1780": "Aggregated imbalance volumes",
	"B0610": "Actual total load per bidding zone",
	"B0620": "Day ahead total load forecast per bidding zone",
	"B1430": "Day ahead aggregated generation",
	"B1440": "Generation forecasts for wind and solar",
	"B1620": "Actual aggregated generation per type",
	"B1630": "Actual or estimated wind and solar power generation",
}

// BMRSReport is a parsed CSV market report: a header row and the data rows
// beneath it.
type BMRSReport struct {
	Code   string
	Header []string
	Rows   [][]string
}

// Column returns the index of a header column, or -1.
func (r *BMRSReport) Column(name string) int {
	for i, h := range r.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// MarketClient fetches settlement-period market reports from the BMRS-style
// reporting API.
type MarketClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Cache   *Cache // optional
}

// NewMarketClient creates a market data client. If baseURL is empty it
// defaults to the public reporting endpoint.
func NewMarketClient(apiKey, baseURL string) *MarketClient {
	if baseURL == "" {
		baseURL = "https://api.bmreports.com/BMRS"
	}
	return &MarketClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetReport fetches one report for a settlement date ("YYYY-MM-DD") and
// period. Period is 1-48, or "*" for all periods of the day.
func (c *MarketClient) GetReport(code, date, period string) (*BMRSReport, error) {
	if _, ok := ReportDescriptors[code]; !ok {
		return nil, fmt.Errorf("code %s is not a supported market report", code)
	}
	if period != "*" {
		p, err := strconv.Atoi(period)
		if err != nil || p < 1 || p > 48 {
			return nil, fmt.Errorf("period must be 1-48 or \"*\", got %q", period)
		}
	}
	if c.APIKey == "" {
		return nil, &APIError{Service: "market", Code: "MISSING_API_KEY", Message: "API key is required"}
	}

	u := fmt.Sprintf("%s/%s/v1?APIKey=%s&SettlementDate=%s&Period=%s&ServiceType=csv",
		c.BaseURL, code, c.APIKey, date, period)

	body, err := c.fetch(u, fmt.Sprintf("market:%s:%s:%s", code, date, period), code)
	if err != nil {
		return nil, err
	}
	return parseBMRSCSV(body, code)
}

// SystemPrices fetches the derived system-wide sell/buy prices for an
// inclusive settlement-date range.
func (c *MarketClient) SystemPrices(fromDate, toDate string) ([]SystemPriceRow, error) {
	if c.APIKey == "" {
		return nil, &APIError{Service: "market", Code: "MISSING_API_KEY", Message: "API key is required"}
	}
	u := fmt.Sprintf("%s/DERSYSDATA/v1?APIKey=%s&FromSettlementDate=%s&ToSettlementDate=%s&ServiceType=csv",
		c.BaseURL, c.APIKey, fromDate, toDate)

	body, err := c.fetch(u, fmt.Sprintf("market:dersys:%s:%s", fromDate, toDate), "DERSYSDATA")
	if err != nil {
		return nil, err
	}
	return parseSystemPrices(body)
}

// SystemPriceRow is one settlement period of the derived system data
// report. Prices are currency/MWh.
type SystemPriceRow struct {
	SettlementDate   string
	SettlementPeriod int
	SellPrice        float64
	BuyPrice         float64
}

func (c *MarketClient) fetch(url, cacheKey, what string) ([]byte, error) {
	if body, ok := c.Cache.Get(cacheKey); ok {
		log.Printf("[Market] Cache hit: %s", what)
		return body, nil
	}

	log.Printf("[Market] Request: %s", what)
	start := time.Now()
	resp, err := c.Client.Get(url)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[Market] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Market] Response: %d %s (duration: %v, report=%s)", resp.StatusCode, resp.Status, duration, what)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Service:    "market",
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.Cache.Set(cacheKey, body)
	return body, nil
}

// parseBMRSCSV unpacks the report payload: four preamble lines, a header
// line (with a leading asterisk on the first column), data rows, and a
// trailing footer line.
func parseBMRSCSV(body []byte, code string) (*BMRSReport, error) {
	lines := strings.Split(string(body), "\n")
	if len(lines) < 6 {
		return nil, fmt.Errorf("report %s: payload too short (%d lines)", code, len(lines))
	}
	header := strings.Split(strings.TrimRight(lines[4], "\r"), ",")
	header[0] = strings.TrimPrefix(header[0], "*")

	rows := make([][]string, 0, len(lines)-6)
	for _, line := range lines[5 : len(lines)-1] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}

	// Old revisions can be appended to the generation-by-type report; keep
	// only the newest block of eleven fuel rows.
	if code == "B1620" && len(rows) > 11 {
		rows = rows[len(rows)-11:]
	}
	return &BMRSReport{Code: code, Header: header, Rows: rows}, nil
}

func parseSystemPrices(body []byte) ([]SystemPriceRow, error) {
	lines := strings.Split(string(body), "\n")
	out := make([]SystemPriceRow, 0, len(lines))
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		// Record type, date, period, SSP, SBP lead each row; footer rows
		// carry fewer fields and are skipped.
		if len(fields) < 5 || fields[0] == "FTR" {
			continue
		}
		period, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		ssp, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		sbp, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			continue
		}
		out = append(out, SystemPriceRow{
			SettlementDate:   fields[1],
			SettlementPeriod: period,
			SellPrice:        ssp,
			BuyPrice:         sbp,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("derived system data report contained no price rows")
	}
	return out, nil
}
