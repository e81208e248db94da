package data

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"site-autobidder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrders() []model.Order {
	return []model.Order{
		{ApplyingDate: "2021-05-06", HourID: 1, Type: model.DirectionSell, Volume: 1.5, Price: 60},
		{ApplyingDate: "2021-05-06", HourID: 2, Type: model.DirectionBuy, Volume: 0.8, Price: 150},
	}
}

func TestSubmitOrders(t *testing.T) {
	t.Run("accepted batch", func(t *testing.T) {
		var got submitRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auction/bidding/set", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(submitResponse{Accepted: 2})
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		accepted, err := c.SubmitOrders(testOrders())
		require.NoError(t, err)
		assert.Equal(t, 2, accepted)
		assert.Equal(t, "auth-key", got.Key)
		require.Len(t, got.Orders, 2)
		assert.Equal(t, model.DirectionSell, got.Orders[0].Type)
	})

	t.Run("rejection message is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(submitResponse{Accepted: 0, Message: "invalid key"})
		}))
		defer srv.Close()

		c := NewExchangeClient("bad", srv.URL, "hq")
		_, err := c.SubmitOrders(testOrders())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "ORDERS_REJECTED", apiErr.Code)
		assert.Contains(t, apiErr.Message, "invalid key")
	})

	t.Run("zero acceptances is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(submitResponse{Accepted: 0})
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		_, err := c.SubmitOrders(testOrders())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "ORDERS_REJECTED", apiErr.Code)
	})

	t.Run("empty batch rejected locally", func(t *testing.T) {
		c := NewExchangeClient("auth-key", "http://127.0.0.1:1", "hq")
		_, err := c.SubmitOrders(nil)
		assert.Error(t, err)
	})

	t.Run("non-200 becomes an API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		_, err := c.SubmitOrders(testOrders())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	})
}

func TestClearoutPrices(t *testing.T) {
	t.Run("fetch and decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auction/market/clearout-prices", r.URL.Path)
			assert.Equal(t, "2021-05-05", r.URL.Query().Get("start_date"))
			assert.Equal(t, "2021-05-06", r.URL.Query().Get("end_date"))
			json.NewEncoder(w).Encode([]model.ClearoutPrice{
				{ApplyingDate: "2021-05-05", HourID: 1, Price: 55.5},
			})
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		prices, err := c.ClearoutPrices("2021-05-05", "2021-05-06")
		require.NoError(t, err)
		require.Len(t, prices, 1)
		assert.Equal(t, 55.5, prices[0].Price)
	})

	t.Run("empty result is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[]"))
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		_, err := c.ClearoutPrices("2021-05-05", "2021-05-06")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "NO_DATA", apiErr.Code)
	})
}

func TestLiveTelemetry(t *testing.T) {
	t.Run("aggregates element groups in kW", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/sim/hq", r.URL.Path)
			json.NewEncoder(w).Encode(telemetryResponse{Elements: map[string]telemetryElement{
				"Solar Generator":  {Power: 250_000},
				"Wind Generator 1": {Power: 100_000},
				"Wind Generator 2": {Power: 150_000},
				"HQ":               {Power: 60_000},
				"Computing Centre": {Power: 200_000},
			}})
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		tel, err := c.LiveTelemetry()
		require.NoError(t, err)
		assert.InDelta(t, 250.0, tel.SolarKW, 1e-9)
		assert.InDelta(t, 250.0, tel.WindKW, 1e-9)
		assert.InDelta(t, 260.0, tel.DemandKW, 1e-9)
	})

	t.Run("empty feed is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"elements":{}}`))
		}))
		defer srv.Close()

		c := NewExchangeClient("auth-key", srv.URL, "hq")
		_, err := c.LiveTelemetry()
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "NO_DATA", apiErr.Code)
	})
}
