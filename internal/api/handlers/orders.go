package handlers

import (
	"net/http"

	"site-autobidder/internal/api/models"
	"site-autobidder/internal/data"

	"github.com/gin-gonic/gin"
)

// OrdersHandler serves stored order batches
type OrdersHandler struct {
	store *data.FileStore
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(store *data.FileStore) *OrdersHandler {
	return &OrdersHandler{store: store}
}

// LatestOrders handles GET /api/v1/orders/latest
func (h *OrdersHandler) LatestOrders(c *gin.Context) {
	batch, ok, err := h.store.LatestOrders()
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
				Code:    "NO_ORDERS",
				Message: "no order batch has been submitted yet",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.OrdersResponse{
		SubmittedAt: batch.SubmittedAt,
		Accepted:    batch.Accepted,
		Orders:      batch.Orders,
	})
}
