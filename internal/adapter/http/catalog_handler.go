package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// CatalogHandler is the public read side of the shop: products, samples and
// the curated home-page sections.
type CatalogHandler struct {
	inv      usecase.InventoryRepo
	sections usecase.SectionRepo
}

func NewCatalogHandler(inv usecase.InventoryRepo, sections usecase.SectionRepo) *CatalogHandler {
	return &CatalogHandler{inv: inv, sections: sections}
}

// GET /v1/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.inv.ListProducts(c.Request.Context())
	if err != nil {
		logging.From(c).Error("list products failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GET /v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.inv.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /v1/samples
func (h *CatalogHandler) ListSamples(c *gin.Context) {
	samples, err := h.inv.ListSamples(c.Request.Context())
	if err != nil {
		logging.From(c).Error("list samples failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples})
}

type sectionView struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Position int              `json:"position"`
	Products []domain.Product `json:"products"`
}

// ListSections resolves each section's product ids against the live catalog,
// preserving the curated order and dropping ids that no longer resolve.
// GET /v1/sections
func (h *CatalogHandler) ListSections(c *gin.Context) {
	ctx := c.Request.Context()

	sections, err := h.sections.List(ctx)
	if err != nil {
		logging.From(c).Error("list sections failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	products, err := h.inv.ListProducts(ctx)
	if err != nil {
		logging.From(c).Error("list products failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		view := sectionView{ID: s.ID, Title: s.Title, Position: s.Position, Products: []domain.Product{}}
		for _, id := range s.ProductIDs {
			if p, ok := byID[id]; ok {
				view.Products = append(view.Products, p)
			}
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, gin.H{"sections": views})
}
