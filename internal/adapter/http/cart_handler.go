package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// CartHandler exposes the cart store over HTTP. The cart id is a
// client-generated opaque key; the store enforces all quantity invariants.
type CartHandler struct {
	storage cart.Storage
	inv     usecase.InventoryRepo
}

func NewCartHandler(storage cart.Storage, inv usecase.InventoryRepo) *CartHandler {
	return &CartHandler{storage: storage, inv: inv}
}

// GET /v1/carts/:id
func (h *CartHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	store := cart.Open(ctx, h.storage, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "lines": store.Lines()})
}

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
}

// POST /v1/carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx := c.Request.Context()
	p, err := h.inv.GetProduct(ctx, req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	store := cart.Open(ctx, h.storage, c.Param("id"))
	line := cart.Line{
		ID:           p.ID,
		Kind:         cart.KindCatalog,
		Title:        p.Title,
		UnitPrice:    p.Price,
		StockCeiling: p.Stock,
	}
	if err := store.Add(ctx, line); err != nil {
		logging.From(c).Warn("cart add persist failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"lines": store.Lines()})
}

type setQuantityReq struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// PUT /v1/carts/:id/items/:itemId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	h.mutate(c, func(ctx context.Context, s *cart.Store) error {
		return s.SetQuantity(ctx, c.Param("itemId"), req.Quantity)
	})
}

// POST /v1/carts/:id/items/:itemId/increment
func (h *CartHandler) Increment(c *gin.Context) {
	h.mutate(c, func(ctx context.Context, s *cart.Store) error {
		return s.Increment(ctx, c.Param("itemId"))
	})
}

// POST /v1/carts/:id/items/:itemId/decrement
func (h *CartHandler) Decrement(c *gin.Context) {
	h.mutate(c, func(ctx context.Context, s *cart.Store) error {
		return s.Decrement(ctx, c.Param("itemId"))
	})
}

// DELETE /v1/carts/:id/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.mutate(c, func(ctx context.Context, s *cart.Store) error {
		return s.Remove(ctx, c.Param("itemId"))
	})
}

// DELETE /v1/carts/:id
func (h *CartHandler) Clear(c *gin.Context) {
	h.mutate(c, func(ctx context.Context, s *cart.Store) error {
		return s.Clear(ctx)
	})
}

func (h *CartHandler) mutate(c *gin.Context, op func(context.Context, *cart.Store) error) {
	ctx := c.Request.Context()
	store := cart.Open(ctx, h.storage, c.Param("id"))
	if err := op(ctx, store); err != nil {
		logging.From(c).Warn("cart mutation persist failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"lines": store.Lines()})
}
