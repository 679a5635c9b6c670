package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// OrderStatusHandler is the public tracking endpoint. It answers from the
// status cache when possible and falls back to the order store, refilling
// the cache on the way out.
type OrderStatusHandler struct {
	orders usecase.OrderRepo
	cache  usecase.OrderCache
}

func NewOrderStatusHandler(orders usecase.OrderRepo, cache usecase.OrderCache) *OrderStatusHandler {
	return &OrderStatusHandler{orders: orders, cache: cache}
}

// GET /v1/orders/:id/status
func (h *OrderStatusHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if status, ok, err := h.cache.GetStatus(ctx, id); err == nil && ok {
		c.JSON(http.StatusOK, gin.H{"orderId": id, "status": status})
		return
	}

	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		logging.From(c).Error("order status lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	if err := h.cache.SetStatus(ctx, id, string(order.Status)); err != nil {
		logging.From(c).Warn("order status cache refill failed", "order_id", id, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"orderId": id, "status": order.Status})
}
