package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type PromoHandler struct {
	promos usecase.PromoRepo
}

func NewPromoHandler(promos usecase.PromoRepo) *PromoHandler {
	return &PromoHandler{promos: promos}
}

// Validate checks a code the same way checkout will: exact, case-sensitive
// match against active codes only.
// GET /v1/promos/:code
func (h *PromoHandler) Validate(c *gin.Context) {
	promo, err := h.promos.FindActive(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "promo code is not valid"})
			return
		}
		logging.From(c).Error("promo lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":            promo.Code,
		"discountPercent": promo.DiscountPercent,
	})
}
