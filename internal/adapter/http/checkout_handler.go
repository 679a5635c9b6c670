package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loaai-rashad/scentorini-shop/internal/adapter/http/middleware"
	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
}

func NewCheckoutHandler(co *usecase.Checkout) *CheckoutHandler {
	return &CheckoutHandler{checkout: co}
}

type checkoutReq struct {
	CartID        string `json:"cartId" binding:"required"`
	CustomerName  string `json:"customerName"`
	PhoneNumber   string `json:"phoneNumber"`
	Governorate   string `json:"governorate"`
	Address       string `json:"address"`
	PromoCode     string `json:"promoCode"`
	PaymentMethod string `json:"paymentMethod"`
	PayerPhone    string `json:"payerPhone"`
}

// Place runs the whole checkout transaction.
// POST /v1/checkout
func (h *CheckoutHandler) Place(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	order, err := h.checkout.Execute(c.Request.Context(), usecase.CheckoutInput{
		CartID:        req.CartID,
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber,
		Governorate:   req.Governorate,
		Address:       req.Address,
		PromoCode:     req.PromoCode,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PayerPhone:    req.PayerPhone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	middleware.CountCheckout("placed")
	c.JSON(http.StatusCreated, gin.H{
		"orderId":  order.ID,
		"subtotal": order.Subtotal,
		"discount": order.Discount,
		"shipping": order.Shipping,
		"total":    order.Total,
		"status":   order.Status,
	})
}

func (h *CheckoutHandler) fail(c *gin.Context, err error) {
	var missing *usecase.MissingFieldError
	var oos *usecase.OutOfStockError
	var notFound *usecase.NotFoundError

	switch {
	case errors.As(err, &missing):
		middleware.CountCheckout("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
	case errors.Is(err, usecase.ErrCartEmpty):
		middleware.CountCheckout("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, usecase.ErrPromoInvalid):
		middleware.CountCheckout("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "promo code is not valid"})
	case errors.As(err, &notFound):
		middleware.CountCheckout("rejected")
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &oos):
		middleware.CountCheckout("out_of_stock")
		c.JSON(http.StatusConflict, gin.H{
			"error":     oos.Error(),
			"item":      oos.Item,
			"available": oos.Available,
			"requested": oos.Requested,
		})
	case errors.Is(err, usecase.ErrCheckoutInFlight):
		middleware.CountCheckout("in_flight")
		c.JSON(http.StatusConflict, gin.H{"error": "a checkout for this cart is already in progress"})
	default:
		middleware.CountCheckout("error")
		logging.From(c).Error("checkout failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
	}
}
