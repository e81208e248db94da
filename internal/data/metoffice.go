package data

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"site-autobidder/internal/model"
)

// MetOfficeClient fetches the 3-hourly site forecast that feeds the
// pipeline. It implements pipeline.ForecastSource.
type MetOfficeClient struct {
	APIKey  string
	BaseURL string
	SiteID  string
	Client  *http.Client
	Cache   *Cache // optional
}

// NewMetOfficeClient creates a forecast client. If baseURL is empty it
// defaults to the public DataPoint endpoint.
func NewMetOfficeClient(apiKey, baseURL, siteID string) *MetOfficeClient {
	if baseURL == "" {
		baseURL = "http://datapoint.metoffice.gov.uk/public/data"
	}
	return &MetOfficeClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		SiteID:  siteID,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchForecast retrieves the raw 3-hourly weather report for the client's
// site.
func (c *MetOfficeClient) FetchForecast() (*model.WeatherReport, error) {
	if c.APIKey == "" {
		return nil, &APIError{Service: "metoffice", Code: "MISSING_API_KEY", Message: "API key is required"}
	}
	if c.SiteID == "" {
		return nil, &APIError{Service: "metoffice", Code: "MISSING_SITE_ID", Message: "site ID is required"}
	}

	u, err := url.Parse(fmt.Sprintf("%s/val/wxfcs/all/json/%s", c.BaseURL, c.SiteID))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("res", "3hourly")
	q.Set("key", c.APIKey)
	u.RawQuery = q.Encode()

	cacheKey := fmt.Sprintf("metoffice:%s:res=3hourly", c.SiteID)
	if body, ok := c.Cache.Get(cacheKey); ok {
		report, err := decodeReport(body)
		if err == nil {
			log.Printf("[MetOffice] Cache hit: site=%s dataDate=%s", c.SiteID, report.SiteRep.DV.DataDate)
			return report, nil
		}
		// Corrupt entry: drop it and fall through to the API.
		c.Cache.Remove(cacheKey)
	}

	log.Printf("[MetOffice] Request: GET %s (site=%s)", u.Path, c.SiteID)
	start := time.Now()
	resp, err := c.Client.Get(u.String())
	duration := time.Since(start)
	if err != nil {
		log.Printf("[MetOffice] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[MetOffice] Response: %d %s (duration: %v, site=%s)", resp.StatusCode, resp.Status, duration, c.SiteID)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Service:    "metoffice",
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	report, err := decodeReport(body)
	if err != nil {
		return nil, err
	}
	c.Cache.Set(cacheKey, body)
	return report, nil
}

func decodeReport(body []byte) (*model.WeatherReport, error) {
	var report model.WeatherReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode weather report: %w", err)
	}
	return &report, nil
}
