package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loaai-rashad/scentorini-shop/internal/adapter/http/middleware"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Login       *LoginHandler
	Catalog     *CatalogHandler
	Cart        *CartHandler
	Discovery   *DiscoveryHandler
	Promo       *PromoHandler
	Review      *ReviewHandler
	Checkout    *CheckoutHandler
	OrderStatus *OrderStatusHandler
	Admin       *AdminHandler
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id", h.Catalog.GetProduct)
		v1.GET("/samples", h.Catalog.ListSamples)
		v1.GET("/sections", h.Catalog.ListSections)

		v1.GET("/carts/:id", h.Cart.Get)
		v1.POST("/carts/:id/items", h.Cart.AddItem)
		v1.PUT("/carts/:id/items/:itemId", h.Cart.SetQuantity)
		v1.POST("/carts/:id/items/:itemId/increment", h.Cart.Increment)
		v1.POST("/carts/:id/items/:itemId/decrement", h.Cart.Decrement)
		v1.DELETE("/carts/:id/items/:itemId", h.Cart.RemoveItem)
		v1.DELETE("/carts/:id", h.Cart.Clear)

		v1.POST("/discovery/quote", h.Discovery.Quote)
		v1.POST("/discovery/commit", h.Discovery.Commit)

		v1.GET("/promos/:code", h.Promo.Validate)

		v1.POST("/reviews", h.Review.Create)
		v1.GET("/reviews", h.Review.List)

		v1.POST("/checkout", h.Checkout.Place)
		v1.GET("/orders/:id/status", h.OrderStatus.Get)

		v1.POST("/admin/login", h.Login.Login)
	}

	admin := r.Group("/v1/admin", authz.Require("admin"))
	{
		admin.POST("/products", h.Admin.CreateProduct)
		admin.PUT("/products/:id", h.Admin.UpdateProduct)
		admin.DELETE("/products/:id", h.Admin.DeleteProduct)

		admin.POST("/samples", h.Admin.CreateSample)
		admin.PUT("/samples/:id", h.Admin.UpdateSample)
		admin.DELETE("/samples/:id", h.Admin.DeleteSample)

		admin.GET("/promos", h.Admin.ListPromos)
		admin.POST("/promos", h.Admin.CreatePromo)
		admin.PATCH("/promos/:id", h.Admin.TogglePromo)

		admin.POST("/sections", h.Admin.CreateSection)
		admin.PUT("/sections/:id", h.Admin.UpdateSection)
		admin.DELETE("/sections/:id", h.Admin.DeleteSection)

		admin.GET("/orders", h.Admin.ListOrders)
		admin.GET("/orders/:id", h.Admin.GetOrder)
		admin.PATCH("/orders/:id/status", h.Admin.UpdateOrderStatus)
		admin.DELETE("/orders/:id", h.Admin.DeleteOrder)

		admin.DELETE("/reviews/:id", h.Admin.DeleteReview)
	}

	return r
}
