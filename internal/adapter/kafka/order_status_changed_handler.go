package kafka

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// OrderStatusChangedHandler applies fulfillment status events to stored
// orders and refreshes the status cache.
type OrderStatusChangedHandler struct {
	Repo  usecase.OrderRepo
	Cache usecase.OrderCache // optional
}

func NewOrderStatusChangedHandler(repo usecase.OrderRepo, cache usecase.OrderCache) *OrderStatusChangedHandler {
	return &OrderStatusChangedHandler{Repo: repo, Cache: cache}
}

func (h *OrderStatusChangedHandler) Handle(ctx context.Context, ev usecase.OrderStatusChangedMsg) error {
	status, err := mapStatus(ev.Status)
	if err != nil {
		// unknown statuses are dropped, not retried
		return nil
	}

	// Same guard as the admin surface: an order only advances from the
	// immediate predecessor, so stale or out-of-order events fall through.
	from, ok := status.Prev()
	if !ok {
		return nil
	}
	moved, err := h.Repo.UpdateStatusIf(ctx, ev.OrderID, from, status)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	// cache best-effort
	if h.Cache != nil {
		_ = h.Cache.SetStatus(ctx, ev.OrderID, string(status))
	}
	return nil
}

func mapStatus(external string) (domain.Status, error) {
	switch strings.ToUpper(external) {
	case "PACKED":
		return domain.StatusPacked, nil
	case "SHIPPED":
		return domain.StatusShipped, nil
	case "DELIVERED":
		return domain.StatusDelivered, nil
	}
	return "", fmt.Errorf("unknown fulfillment status %q", external)
}
