package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

type fakeOrderRepo struct {
	statuses map[string]domain.Status
}

func (f *fakeOrderRepo) Create(_ context.Context, _ *domain.Order) error { return nil }
func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s, ok := f.statuses[id]
	if !ok {
		return nil, usecase.ErrNotFound
	}
	return &domain.Order{ID: id, Status: s}, nil
}
func (f *fakeOrderRepo) List(_ context.Context) ([]domain.Order, error) { return nil, nil }
func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, to domain.Status) error {
	f.statuses[id] = to
	return nil
}
func (f *fakeOrderRepo) UpdateStatusIf(_ context.Context, id string, from, to domain.Status) (bool, error) {
	if f.statuses[id] != from {
		return false, nil
	}
	f.statuses[id] = to
	return true, nil
}
func (f *fakeOrderRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeStatusCache struct {
	set map[string]string
}

func (f *fakeStatusCache) SetStatus(_ context.Context, id, status string) error {
	f.set[id] = status
	return nil
}
func (f *fakeStatusCache) GetStatus(_ context.Context, id string) (string, bool, error) {
	s, ok := f.set[id]
	return s, ok, nil
}

func TestHandleAdvancesStatusAndCache(t *testing.T) {
	repo := &fakeOrderRepo{statuses: map[string]domain.Status{"o1": domain.StatusNew}}
	cache := &fakeStatusCache{set: map[string]string{}}
	h := NewOrderStatusChangedHandler(repo, cache)

	err := h.Handle(context.Background(), usecase.OrderStatusChangedMsg{OrderID: "o1", Status: "packed"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPacked, repo.statuses["o1"])
	assert.Equal(t, "Packed", cache.set["o1"])
}

func TestHandleDropsOutOfOrderEvent(t *testing.T) {
	repo := &fakeOrderRepo{statuses: map[string]domain.Status{"o1": domain.StatusNew}}
	cache := &fakeStatusCache{set: map[string]string{}}
	h := NewOrderStatusChangedHandler(repo, cache)

	// Delivered requires Shipped; a skipped step falls through without error
	err := h.Handle(context.Background(), usecase.OrderStatusChangedMsg{OrderID: "o1", Status: "DELIVERED"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNew, repo.statuses["o1"])
	assert.Empty(t, cache.set)
}

func TestHandleDropsUnknownStatus(t *testing.T) {
	repo := &fakeOrderRepo{statuses: map[string]domain.Status{"o1": domain.StatusNew}}
	h := NewOrderStatusChangedHandler(repo, nil)

	err := h.Handle(context.Background(), usecase.OrderStatusChangedMsg{OrderID: "o1", Status: "EXPLODED"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, repo.statuses["o1"])
}
