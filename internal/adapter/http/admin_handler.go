package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// AdminHandler is the authenticated back-office surface: catalog writes,
// promo management, section curation, order fulfillment and review cleanup.
type AdminHandler struct {
	catalog  usecase.CatalogAdmin
	orders   usecase.OrderRepo
	promos   usecase.PromoRepo
	sections usecase.SectionRepo
	reviews  usecase.ReviewRepo
	cache    usecase.OrderCache
}

func NewAdminHandler(
	catalog usecase.CatalogAdmin,
	orders usecase.OrderRepo,
	promos usecase.PromoRepo,
	sections usecase.SectionRepo,
	reviews usecase.ReviewRepo,
	cache usecase.OrderCache,
) *AdminHandler {
	return &AdminHandler{
		catalog:  catalog,
		orders:   orders,
		promos:   promos,
		sections: sections,
		reviews:  reviews,
		cache:    cache,
	}
}

// ---- products ----

type productReq struct {
	Title    string          `json:"title" binding:"required"`
	Subtitle string          `json:"subtitle"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Stock    int             `json:"stock"`
	Images   []string        `json:"images"`
	Audience string          `json:"audience"`
}

// POST /v1/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	p := domain.Product{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Price:    req.Price,
		Stock:    req.Stock,
		Images:   req.Images,
		Audience: req.Audience,
	}
	if err := h.catalog.CreateProduct(c.Request.Context(), &p); err != nil {
		h.serverError(c, "create product", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /v1/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	p := domain.Product{
		ID:       c.Param("id"),
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Price:    req.Price,
		Stock:    req.Stock,
		Images:   req.Images,
		Audience: req.Audience,
	}
	if err := h.catalog.UpdateProduct(c.Request.Context(), &p); err != nil {
		h.writeErr(c, "update product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /v1/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeErr(c, "delete product", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- samples ----

type sampleReq struct {
	Title string          `json:"title" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
	Stock int             `json:"stock"`
}

// POST /v1/admin/samples
func (h *AdminHandler) CreateSample(c *gin.Context) {
	var req sampleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	s := domain.Sample{ID: uuid.NewString(), Title: req.Title, Price: req.Price, Stock: req.Stock}
	if err := h.catalog.CreateSample(c.Request.Context(), &s); err != nil {
		h.serverError(c, "create sample", err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// PUT /v1/admin/samples/:id
func (h *AdminHandler) UpdateSample(c *gin.Context) {
	var req sampleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	s := domain.Sample{ID: c.Param("id"), Title: req.Title, Price: req.Price, Stock: req.Stock}
	if err := h.catalog.UpdateSample(c.Request.Context(), &s); err != nil {
		h.writeErr(c, "update sample", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DELETE /v1/admin/samples/:id
func (h *AdminHandler) DeleteSample(c *gin.Context) {
	if err := h.catalog.DeleteSample(c.Request.Context(), c.Param("id")); err != nil {
		h.writeErr(c, "delete sample", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- promo codes ----

type promoReq struct {
	Code            string `json:"code" binding:"required"`
	DiscountPercent int    `json:"discountPercent" binding:"required,gte=0,lte=100"`
	Active          bool   `json:"active"`
}

// GET /v1/admin/promos
func (h *AdminHandler) ListPromos(c *gin.Context) {
	promos, err := h.promos.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list promos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promos": promos})
}

// POST /v1/admin/promos
func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var req promoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	p := domain.PromoCode{
		ID:              uuid.NewString(),
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		Active:          req.Active,
	}
	if err := h.promos.Create(c.Request.Context(), &p); err != nil {
		h.serverError(c, "create promo", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type promoToggleReq struct {
	Active *bool `json:"active" binding:"required"`
}

// PATCH /v1/admin/promos/:id
func (h *AdminHandler) TogglePromo(c *gin.Context) {
	var req promoToggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if err := h.promos.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.writeErr(c, "toggle promo", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": *req.Active})
}

// ---- sections ----

type sectionReq struct {
	Title      string   `json:"title" binding:"required"`
	ProductIDs []string `json:"productIds"`
	Position   int      `json:"position"`
}

// POST /v1/admin/sections
func (h *AdminHandler) CreateSection(c *gin.Context) {
	var req sectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	s := domain.Section{
		ID:         uuid.NewString(),
		Title:      req.Title,
		ProductIDs: req.ProductIDs,
		Position:   req.Position,
	}
	if err := h.sections.Create(c.Request.Context(), &s); err != nil {
		h.serverError(c, "create section", err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// PUT /v1/admin/sections/:id
func (h *AdminHandler) UpdateSection(c *gin.Context) {
	var req sectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	s := domain.Section{
		ID:         c.Param("id"),
		Title:      req.Title,
		ProductIDs: req.ProductIDs,
		Position:   req.Position,
	}
	if err := h.sections.Update(c.Request.Context(), &s); err != nil {
		h.writeErr(c, "update section", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DELETE /v1/admin/sections/:id
func (h *AdminHandler) DeleteSection(c *gin.Context) {
	if err := h.sections.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeErr(c, "delete section", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- orders ----

// GET /v1/admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GET /v1/admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeErr(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type orderStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /v1/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	to := domain.Status(req.Status)
	from, ok := to.Prev()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown or initial status"})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	moved, err := h.orders.UpdateStatusIf(ctx, id, from, to)
	if err != nil {
		h.writeErr(c, "update order status", err)
		return
	}
	if !moved {
		if _, err := h.orders.GetByID(ctx, id); err != nil {
			h.writeErr(c, "update order status", err)
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "order is not in " + string(from)})
		return
	}
	if err := h.cache.SetStatus(ctx, id, string(to)); err != nil {
		logging.From(c).Warn("order status cache write failed", "order_id", id, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": to})
}

// DELETE /v1/admin/orders/:id
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeErr(c, "delete order", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- reviews ----

// DELETE /v1/admin/reviews/:id
func (h *AdminHandler) DeleteReview(c *gin.Context) {
	if err := h.reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeErr(c, "delete review", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- shared ----

func (h *AdminHandler) writeErr(c *gin.Context, op string, err error) {
	if errors.Is(err, usecase.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.serverError(c, op, err)
}

func (h *AdminHandler) serverError(c *gin.Context, op string, err error) {
	logging.From(c).Error(op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
}
