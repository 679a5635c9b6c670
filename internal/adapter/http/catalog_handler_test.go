package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type stubInventory struct {
	products []domain.Product
}

func (s *stubInventory) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, usecase.ErrNotFound
}
func (s *stubInventory) ListProducts(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}
func (s *stubInventory) GetSample(_ context.Context, _ string) (*domain.Sample, error) {
	return nil, usecase.ErrNotFound
}
func (s *stubInventory) ListSamples(_ context.Context) ([]domain.Sample, error) { return nil, nil }
func (s *stubInventory) Reserve(_ context.Context, _ []usecase.StockDecrement) error {
	return nil
}

type stubSections struct {
	sections []domain.Section
}

func (s *stubSections) List(_ context.Context) ([]domain.Section, error) { return s.sections, nil }
func (s *stubSections) Create(_ context.Context, _ *domain.Section) error {
	return nil
}
func (s *stubSections) Update(_ context.Context, _ *domain.Section) error {
	return nil
}
func (s *stubSections) Delete(_ context.Context, _ string) error { return nil }

func TestListSectionsResolvesInCuratedOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	inv := &stubInventory{products: []domain.Product{
		{ID: "p1", Title: "Amber Night", Price: decimal.NewFromInt(450), Stock: 5},
		{ID: "p2", Title: "Sea Breeze", Price: decimal.NewFromInt(300), Stock: 2},
	}}
	sections := &stubSections{sections: []domain.Section{
		// "ghost" was deleted from the catalog after curation
		{ID: "sec1", Title: "Best Sellers", ProductIDs: []string{"p2", "ghost", "p1"}, Position: 0},
	}}

	h := NewCatalogHandler(inv, sections)
	r := gin.New()
	r.GET("/v1/sections", h.ListSections)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/sections", nil))
	require.Equal(t, 200, w.Code)

	var resp struct {
		Sections []struct {
			Title    string `json:"title"`
			Products []struct {
				ID string `json:"ID"`
			} `json:"products"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sections, 1)
	require.Len(t, resp.Sections[0].Products, 2)
	// curated order survives; the vanished id is skipped, not errored
	assert.Equal(t, "p2", resp.Sections[0].Products[0].ID)
	assert.Equal(t, "p1", resp.Sections[0].Products[1].ID)
}

func TestGetProductNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewCatalogHandler(&stubInventory{}, &stubSections{})
	r := gin.New()
	r.GET("/v1/products/:id", h.GetProduct)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/products/nope", nil))
	assert.Equal(t, 404, w.Code)
}
