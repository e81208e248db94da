package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"site-autobidder/internal/data"
	"site-autobidder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *data.FileStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := data.NewFileStore(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	ph := NewPredictionHandler(store)
	oh := NewOrdersHandler(store)
	r.GET("/api/v1/prediction/latest", ph.LatestPrediction)
	r.GET("/api/v1/prediction/summary", ph.DaySummary)
	r.GET("/api/v1/orders/latest", oh.LatestOrders)
	return r, store
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func storedPrediction(t *testing.T, store *data.FileStore) model.PredictionRecord {
	t.Helper()
	start := time.Date(2021, 5, 2, 23, 0, 0, 0, time.UTC)
	p := &model.Prediction{
		Times:  make([]time.Time, 49),
		Solar:  make([]float64, 49),
		Wind:   make([]float64, 49),
		Demand: make([]float64, 49),
		Net:    make([]float64, 49),
		Prices: make([]float64, 48),
	}
	for i := range p.Times {
		p.Times[i] = start.Add(time.Duration(i) * 30 * time.Minute)
		p.Solar[i] = 10
		p.Wind[i] = 20
		p.Demand[i] = 5
		p.Net[i] = 25
	}
	for i := range p.Prices {
		p.Prices[i] = 50
	}
	rec := model.PredictionRecord{
		CalculatedAt: "2021-05-02T07:00:00Z",
		Prediction:   p.Dump(),
	}
	require.NoError(t, store.SavePrediction(rec))
	return rec
}

func TestLatestPrediction(t *testing.T) {
	t.Run("empty store returns 404", func(t *testing.T) {
		r, _ := newRouter(t)
		w := get(r, "/api/v1/prediction/latest")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NO_PREDICTION")
	})

	t.Run("latest record served", func(t *testing.T) {
		r, store := newRouter(t)
		rec := storedPrediction(t, store)

		w := get(r, "/api/v1/prediction/latest")
		require.Equal(t, http.StatusOK, w.Code)

		var got struct {
			CalculatedAt string               `json:"calculated_at"`
			Prediction   model.PredictionDump `json:"prediction"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, rec.CalculatedAt, got.CalculatedAt)
		assert.Len(t, got.Prediction.NetEnergy, 49)
		assert.Equal(t, 25.0, got.Prediction.NetEnergy[0])
	})
}

func TestDaySummary(t *testing.T) {
	t.Run("empty store returns 404", func(t *testing.T) {
		r, _ := newRouter(t)
		w := get(r, "/api/v1/prediction/summary")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("statistics over latest record", func(t *testing.T) {
		r, store := newRouter(t)
		storedPrediction(t, store)

		w := get(r, "/api/v1/prediction/summary")
		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 25.0, got["mean_net_kw"])
		assert.Equal(t, 50.0, got["mean_price_mwh"])
		assert.Equal(t, float64(48), got["surplus_slots"])
		assert.Equal(t, float64(0), got["deficit_slots"])
		// 48 half-hour slots of (10+20-5) kW.
		assert.InDelta(t, 600.0, got["net_energy_kwh"], 1e-9)
	})

	t.Run("corrupt record returns 500", func(t *testing.T) {
		r, store := newRouter(t)
		require.NoError(t, store.SavePrediction(model.PredictionRecord{
			CalculatedAt: "2021-05-02T07:00:00Z",
			Prediction:   model.PredictionDump{DateTime: []string{"not-a-time"}},
		}))

		w := get(r, "/api/v1/prediction/summary")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "BAD_RECORD")
	})
}

func TestLatestOrders(t *testing.T) {
	t.Run("empty store returns 404", func(t *testing.T) {
		r, _ := newRouter(t)
		w := get(r, "/api/v1/orders/latest")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NO_ORDERS")
	})

	t.Run("latest batch served", func(t *testing.T) {
		r, store := newRouter(t)
		require.NoError(t, store.SaveOrders(data.OrderBatch{
			SubmittedAt: "2021-05-02T07:00:00Z",
			Accepted:    2,
			Orders: []model.Order{
				{ApplyingDate: "2021-05-03", HourID: 1, Type: model.DirectionSell, Volume: 1.5, Price: 42.13},
				{ApplyingDate: "2021-05-03", HourID: 2, Type: model.DirectionBuy, Volume: 0.2, Price: 150},
			},
		}))

		w := get(r, "/api/v1/orders/latest")
		require.Equal(t, http.StatusOK, w.Code)

		var got data.OrderBatch
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Accepted)
		require.Len(t, got.Orders, 2)
		assert.Equal(t, model.DirectionSell, got.Orders[0].Type)
	})
}
