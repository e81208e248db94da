package handlers

import (
	"net/http"

	"site-autobidder/internal/analysis"
	"site-autobidder/internal/api/models"
	"site-autobidder/internal/data"

	"github.com/gin-gonic/gin"
)

// PredictionHandler serves stored pipeline output
type PredictionHandler struct {
	store *data.FileStore
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(store *data.FileStore) *PredictionHandler {
	return &PredictionHandler{store: store}
}

// LatestPrediction handles GET /api/v1/prediction/latest
func (h *PredictionHandler) LatestPrediction(c *gin.Context) {
	rec, ok, err := h.store.LatestPrediction()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_PREDICTION",
				Message: "no prediction has been stored yet",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.PredictionResponse{
		CalculatedAt: rec.CalculatedAt,
		Prediction:   rec.Prediction,
	})
}

// DaySummary handles GET /api/v1/prediction/summary
func (h *PredictionHandler) DaySummary(c *gin.Context) {
	rec, ok, err := h.store.LatestPrediction()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_PREDICTION",
				Message: "no prediction has been stored yet",
			},
		})
		return
	}

	pred, err := rec.Prediction.Restore()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "BAD_RECORD",
				Message: err.Error(),
			},
		})
		return
	}

	s := analysis.Summarize(pred)
	c.JSON(http.StatusOK, models.SummaryResponse{
		CalculatedAt: rec.CalculatedAt,
		MinNetKW:     s.MinNetKW,
		MaxNetKW:     s.MaxNetKW,
		MeanNetKW:    s.MeanNetKW,
		P05NetKW:     s.P05NetKW,
		P95NetKW:     s.P95NetKW,
		SurplusSlots: s.SurplusSlots,
		DeficitSlots: s.DeficitSlots,
		NetEnergyKWh: s.TotalSolarKWh + s.TotalWindKWh - s.TotalDemandKWh,
		MeanPriceMWh: s.MeanPriceMWh,
	})
}
