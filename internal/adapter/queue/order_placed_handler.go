package queue

import (
	"context"
	"log/slog"

	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// PurchaseTracker is the port to the analytics collaborator.
type PurchaseTracker interface {
	TrackPurchase(ctx context.Context, msg usecase.OrderPlacedMsg) error
}

// ConfirmationSender is the port to the transactional email collaborator.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, msg usecase.OrderPlacedMsg) error
}

// OrderPlacedHandler fans an order.placed event out to analytics and email.
// Both are best-effort: failures are logged and the delivery is still acked,
// because a lost email must never stall or replay a completed order.
type OrderPlacedHandler struct {
	analytics PurchaseTracker
	email     ConfirmationSender
	log       *slog.Logger
}

func NewOrderPlacedHandler(analytics PurchaseTracker, email ConfirmationSender, log *slog.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{analytics: analytics, email: email, log: log}
}

// HandlePlaced is intended to be used with the JSON adapter
// (queue.JSONHandler[usecase.OrderPlacedMsg]).
func (h *OrderPlacedHandler) HandlePlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	if h.analytics != nil {
		if err := h.analytics.TrackPurchase(ctx, msg); err != nil {
			h.log.Warn("purchase event failed", "order", msg.OrderID, "error", err)
		}
	}
	if h.email != nil {
		if err := h.email.SendOrderConfirmation(ctx, msg); err != nil {
			h.log.Warn("confirmation email failed", "order", msg.OrderID, "error", err)
		}
	}
	return nil
}
