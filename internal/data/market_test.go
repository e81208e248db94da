package data

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bmrsFixture(dataRows []string) string {
	lines := []string{
		"HDR",
		"B1770",
		"Imbalance prices",
		"2021-05-04",
		"*SettlementDate,SettlementPeriod,ImbalancePriceAmount",
	}
	lines = append(lines, dataRows...)
	lines = append(lines, "FTR")
	return strings.Join(lines, "\n")
}

func marketServer(t *testing.T, payload string) (*httptest.Server, *MarketClient) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv, NewMarketClient("secret", srv.URL)
}

func TestGetReport(t *testing.T) {
	t.Run("parses header and rows", func(t *testing.T) {
		_, c := marketServer(t, bmrsFixture([]string{
			"2021-05-04,1,45.50",
			"2021-05-04,2,46.00",
		}))

		report, err := c.GetReport("B1770", "2021-05-04", "*")
		require.NoError(t, err)
		assert.Equal(t, []string{"SettlementDate", "SettlementPeriod", "ImbalancePriceAmount"}, report.Header)
		require.Len(t, report.Rows, 2)
		assert.Equal(t, "45.50", report.Rows[0][2])
	})

	t.Run("column lookup", func(t *testing.T) {
		_, c := marketServer(t, bmrsFixture([]string{"2021-05-04,1,45.50"}))
		report, err := c.GetReport("B1770", "2021-05-04", "1")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Column("SettlementPeriod"))
		assert.Equal(t, -1, report.Column("NoSuchColumn"))
	})

	t.Run("generation report keeps the newest fuel block", func(t *testing.T) {
		rows := make([]string, 0, 22)
		for rev := 0; rev < 2; rev++ {
			for fuel := 0; fuel < 11; fuel++ {
				rows = append(rows, fmt.Sprintf("2021-05-04,1,rev%d-fuel%d", rev, fuel))
			}
		}
		_, c := marketServer(t, bmrsFixture(rows))

		report, err := c.GetReport("B1620", "2021-05-04", "1")
		require.NoError(t, err)
		require.Len(t, report.Rows, 11)
		assert.Equal(t, "rev1-fuel0", report.Rows[0][2])
		assert.Equal(t, "rev1-fuel10", report.Rows[10][2])
	})

	t.Run("unknown report code rejected", func(t *testing.T) {
		_, c := marketServer(t, "")
		_, err := c.GetReport("B9999", "2021-05-04", "1")
		assert.Error(t, err)
	})

	t.Run("invalid period rejected", func(t *testing.T) {
		_, c := marketServer(t, "")
		for _, period := range []string{"0", "49", "first", ""} {
			_, err := c.GetReport("B1770", "2021-05-04", period)
			assert.Error(t, err, "period %q", period)
		}
	})

	t.Run("missing key rejected", func(t *testing.T) {
		c := NewMarketClient("", "http://127.0.0.1:1")
		_, err := c.GetReport("B1770", "2021-05-04", "1")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "MISSING_API_KEY", apiErr.Code)
	})

	t.Run("truncated payload rejected", func(t *testing.T) {
		_, c := marketServer(t, "HDR\nB1770\n")
		_, err := c.GetReport("B1770", "2021-05-04", "1")
		assert.Error(t, err)
	})

	t.Run("non-200 becomes an API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		c := NewMarketClient("secret", srv.URL)
		_, err := c.GetReport("B1770", "2021-05-04", "1")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})
}

func TestSystemPrices(t *testing.T) {
	payload := strings.Join([]string{
		"HDR,DERSYSDATA",
		"DSD,2021-05-04,1,40.50,45.00,extra",
		"DSD,2021-05-04,2,41.25,46.50,extra",
		"DSD,2021-05-04,notanumber,41.25,46.50,extra",
		"FTR,2",
	}, "\n")

	t.Run("parses price rows", func(t *testing.T) {
		_, c := marketServer(t, payload)
		rows, err := c.SystemPrices("2021-05-04", "2021-05-04")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2021-05-04", rows[0].SettlementDate)
		assert.Equal(t, 1, rows[0].SettlementPeriod)
		assert.Equal(t, 40.50, rows[0].SellPrice)
		assert.Equal(t, 45.00, rows[0].BuyPrice)
		assert.Equal(t, 2, rows[1].SettlementPeriod)
	})

	t.Run("empty report is an error", func(t *testing.T) {
		_, c := marketServer(t, "HDR\nFTR,0")
		_, err := c.SystemPrices("2021-05-04", "2021-05-04")
		assert.Error(t, err)
	})

	t.Run("served from cache on repeat", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(payload))
		}))
		defer srv.Close()

		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)
		c := NewMarketClient("secret", srv.URL)
		c.Cache = cache

		_, err = c.SystemPrices("2021-05-04", "2021-05-04")
		require.NoError(t, err)
		_, err = c.SystemPrices("2021-05-04", "2021-05-04")
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}
