package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
	"github.com/loaai-rashad/scentorini-shop/internal/discovery"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// DiscoveryHandler drives the build-your-own-set flow. The builder is
// stateless across requests: each call replays the client's current slot
// selections against a fresh sample snapshot.
type DiscoveryHandler struct {
	inv      usecase.InventoryRepo
	storage  cart.Storage
	min      int
	setTitle string
}

func NewDiscoveryHandler(inv usecase.InventoryRepo, storage cart.Storage, min int, setTitle string) *DiscoveryHandler {
	return &DiscoveryHandler{inv: inv, storage: storage, min: min, setTitle: setTitle}
}

type slotsReq struct {
	// Slots maps slot index to sample title; empty strings clear a slot.
	Slots []string `json:"slots" binding:"required"`
}

type commitReq struct {
	CartID string   `json:"cartId" binding:"required"`
	Slots  []string `json:"slots" binding:"required"`
}

// Quote replays the slot selections and returns the running summary.
// POST /v1/discovery/quote
func (h *DiscoveryHandler) Quote(c *gin.Context) {
	var req slotsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	b, err := h.replay(c, req.Slots)
	if err != nil {
		return // response already written
	}

	sum := b.Summary()
	c.JSON(http.StatusOK, gin.H{
		"selected":       b.Selected(),
		"count":          sum.Count,
		"total":          sum.Total,
		"averagePerItem": sum.AveragePerItem,
	})
}

// Commit validates the set against live stock and adds it to the cart as one
// composite line.
// POST /v1/discovery/commit
func (h *DiscoveryHandler) Commit(c *gin.Context) {
	var req commitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	b, err := h.replay(c, req.Slots)
	if err != nil {
		return
	}

	ctx := c.Request.Context()
	store := cart.Open(ctx, h.storage, req.CartID)
	line, err := b.Commit(ctx, h.inv, store)
	if err != nil {
		var tooFew *discovery.TooFewSelectionsError
		var unavailable *discovery.SampleUnavailableError
		switch {
		case errors.As(err, &tooFew):
			c.JSON(http.StatusBadRequest, gin.H{"error": tooFew.Error()})
		case errors.As(err, &unavailable):
			c.JSON(http.StatusConflict, gin.H{"error": unavailable.Error(), "sample": unavailable.Title})
		default:
			logging.From(c).Error("discovery commit failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"line": line, "lines": store.Lines()})
}

// replay builds a fresh Builder from the live sample catalog and applies the
// client's slot selections. It writes the error response itself.
func (h *DiscoveryHandler) replay(c *gin.Context, slots []string) (*discovery.Builder, error) {
	if len(slots) > discovery.SlotCount {
		err := errors.New("too many slots")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, err
	}

	samples, err := h.inv.ListSamples(c.Request.Context())
	if err != nil {
		logging.From(c).Error("list samples failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return nil, err
	}

	b := discovery.NewBuilder(samples, h.min, h.setTitle)
	for i, title := range slots {
		if err := b.SelectSlot(i, title); err != nil {
			var dup *discovery.DuplicateSelectionError
			if errors.As(err, &dup) {
				c.JSON(http.StatusConflict, gin.H{"error": dup.Error(), "sample": dup.Title})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return nil, err
		}
	}
	return b, nil
}
