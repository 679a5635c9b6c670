package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type ReviewHandler struct {
	reviews usecase.ReviewRepo
	inv     usecase.InventoryRepo
}

func NewReviewHandler(reviews usecase.ReviewRepo, inv usecase.InventoryRepo) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, inv: inv}
}

type createReviewReq struct {
	ProductID string `json:"productId"` // empty or "general" for a shop review
	Name      string `json:"name" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

// Create stores a review. The rating is clamped to the 1..5 band rather than
// rejected, matching what the star widget can produce.
// POST /v1/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx := c.Request.Context()
	review := domain.Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		Name:      req.Name,
		Rating:    domain.ClampRating(req.Rating),
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if review.ProductID == "" {
		review.ProductID = domain.GeneralReviewTarget
	}
	if review.ProductID != domain.GeneralReviewTarget {
		p, err := h.inv.GetProduct(ctx, review.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		review.ProductName = p.Title
	}

	if err := h.reviews.Create(ctx, &review); err != nil {
		logging.From(c).Error("create review failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": review.ID})
}

// List returns reviews, optionally filtered by ?productId=.
// GET /v1/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviews.List(c.Request.Context(), c.Query("productId"))
	if err != nil {
		logging.From(c).Error("list reviews failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
