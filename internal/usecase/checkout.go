package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/logging"
	"github.com/loaai-rashad/scentorini-shop/internal/pricing"
)

// phase tracks where a checkout attempt is; failures exit back to idle and
// never leave partial state visible to the caller.
type phase string

const (
	phaseValidating phase = "validating"
	phaseReserving  phase = "reserving"
	phasePersisting phase = "persisting"
	phaseNotifying  phase = "notifying"
	phaseDone       phase = "done"
)

const idemScope = "checkout"

type CheckoutInput struct {
	CartID       string
	CustomerName string
	PhoneNumber  string
	Governorate  string
	Address      string

	PromoCode     string
	PaymentMethod domain.PaymentMethod
	PayerPhone    string
}

// Checkout converts a cart into an immutable order: validate every line
// against live stock, reserve inventory in one atomic conditional batch,
// persist the order, enqueue the placed event, clear the cart.
type Checkout struct {
	carts    cart.Storage
	inv      InventoryRepo
	orders   OrderRepo
	promos   PromoRepo
	outbox   OutboxRepo
	idem     IdempotencyStore
	pricer   pricing.Calculator
	currency string
}

func NewCheckout(
	carts cart.Storage,
	inv InventoryRepo,
	orders OrderRepo,
	promos PromoRepo,
	outbox OutboxRepo,
	idem IdempotencyStore,
	pricer pricing.Calculator,
	currency string,
) *Checkout {
	return &Checkout{
		carts:    carts,
		inv:      inv,
		orders:   orders,
		promos:   promos,
		outbox:   outbox,
		idem:     idem,
		pricer:   pricer,
		currency: currency,
	}
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	log := logging.FromCtx(ctx).With("cart", in.CartID)

	ok, err := uc.idem.TryLock(ctx, idemScope, in.CartID)
	if err != nil {
		return nil, fmt.Errorf("checkout lock: %w", err)
	}
	if !ok {
		return nil, ErrCheckoutInFlight
	}
	// the lock survives a success (its TTL absorbs double clicks) but is
	// released on any failure so the customer can fix the form and retry
	release := func() { _ = uc.idem.Release(ctx, idemScope, in.CartID) }

	order, err := uc.run(ctx, log, in)
	if err != nil {
		release()
		return nil, err
	}
	return order, nil
}

func (uc *Checkout) run(ctx context.Context, log *slog.Logger, in CheckoutInput) (*domain.Order, error) {
	log.Info("checkout", "phase", phaseValidating)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	store := cart.Open(ctx, uc.carts, in.CartID)
	lines := store.Lines()
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	var promo *domain.PromoCode
	if code := strings.TrimSpace(in.PromoCode); code != "" {
		p, err := uc.promos.FindActive(ctx, code)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrPromoInvalid
			}
			return nil, fmt.Errorf("promo lookup: %w", err)
		}
		promo = p
	}

	decs, err := uc.validateStock(ctx, lines)
	if err != nil {
		return nil, err
	}

	quote := uc.pricer.Quote(lines, promo, in.Governorate)

	log.Info("checkout", "phase", phaseReserving, "records", len(decs))
	// Reserve re-checks stock inside the transaction: decrement only where
	// stock >= qty, all rows or none. Two racing checkouts over the same
	// last unit cannot both pass.
	if err := uc.inv.Reserve(ctx, decs); err != nil {
		return nil, err
	}

	log.Info("checkout", "phase", phasePersisting)
	order := &domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  in.CustomerName,
		PhoneNumber:   in.PhoneNumber,
		Governorate:   in.Governorate,
		Address:       in.Address,
		Items:         snapshotItems(lines),
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Shipping:      quote.Shipping,
		Total:         quote.Total,
		PaymentMethod: in.PaymentMethod,
		PayerPhone:    in.PayerPhone,
		Status:        domain.StatusNew,
		CreatedAt:     time.Now().UTC(),
	}
	if promo != nil {
		order.PromoCode = promo.Code
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		// inventory is already decremented; no compensating transaction
		// is attempted, the caller sees a generic retry error
		return nil, fmt.Errorf("persist order: %w", err)
	}

	log.Info("checkout", "phase", phaseNotifying)
	if payload, err := json.Marshal(placedMsg(order, uc.currency)); err == nil {
		if err := uc.outbox.InsertOrderPlaced(ctx, payload); err != nil {
			log.Warn("outbox insert failed", "order", order.ID, "error", err)
		}
	}

	if err := store.Clear(ctx); err != nil {
		log.Warn("cart clear failed after checkout", "error", err)
	}
	_ = uc.idem.Remember(ctx, idemScope, in.CartID, order.ID)

	log.Info("checkout", "phase", phaseDone, "order", order.ID, "total", order.Total.String())
	return order, nil
}

func validateInput(in CheckoutInput) error {
	required := []struct{ name, value string }{
		{"name", in.CustomerName},
		{"phone", in.PhoneNumber},
		{"governorate", in.Governorate},
		{"address", in.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	if !in.PaymentMethod.Valid() {
		return &MissingFieldError{Field: "paymentMethod"}
	}
	// checked before any inventory read
	if in.PaymentMethod == domain.PaymentBankTransfer && strings.TrimSpace(in.PayerPhone) == "" {
		return &MissingFieldError{Field: "payerPhone"}
	}
	return nil
}

// validateStock fetches every referenced record for early, precisely named
// failures, and builds the decrement batch for the reservation.
func (uc *Checkout) validateStock(ctx context.Context, lines []cart.Line) ([]StockDecrement, error) {
	var decs []StockDecrement
	for _, l := range lines {
		if l.Composite() {
			for _, comp := range l.Components {
				s, err := uc.inv.GetSample(ctx, comp.SampleID)
				if err != nil {
					if errors.Is(err, ErrNotFound) {
						return nil, &NotFoundError{ID: comp.SampleID}
					}
					return nil, fmt.Errorf("read sample %s: %w", comp.SampleID, err)
				}
				if s.Stock < 1 {
					return nil, &OutOfStockError{Item: comp.Title, Available: s.Stock, Requested: 1}
				}
				decs = append(decs, StockDecrement{Pool: PoolSamples, ID: comp.SampleID, Title: comp.Title, Qty: 1})
			}
			continue
		}
		p, err := uc.inv.GetProduct(ctx, l.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, &NotFoundError{ID: l.ID}
			}
			return nil, fmt.Errorf("read product %s: %w", l.ID, err)
		}
		if p.Stock < l.Quantity {
			return nil, &OutOfStockError{Item: l.Title, Available: p.Stock, Requested: l.Quantity}
		}
		decs = append(decs, StockDecrement{Pool: PoolProducts, ID: l.ID, Title: l.Title, Qty: l.Quantity})
	}
	return decs, nil
}

func snapshotItems(lines []cart.Line) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := domain.OrderItem{
			ProductID: l.ID,
			Title:     l.Title,
			Price:     l.UnitPrice,
			Quantity:  l.Quantity,
		}
		if l.Composite() {
			item.IsCustomSet = true
			item.Quantity = 1
			for _, comp := range l.Components {
				item.SelectedSamples = append(item.SelectedSamples, comp.Title)
			}
		}
		items = append(items, item)
	}
	return items
}

func placedMsg(o *domain.Order, currency string) OrderPlacedMsg {
	msg := OrderPlacedMsg{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		PhoneNumber:  o.PhoneNumber,
		Governorate:  o.Governorate,
		Currency:     currency,
		Total:        o.Total.String(),
		PromoCode:    o.PromoCode,
	}
	for _, it := range o.Items {
		msg.Items = append(msg.Items, PlacedItemMsg{
			ID:       it.ProductID,
			Title:    it.Title,
			Price:    it.Price.String(),
			Quantity: it.Quantity,
		})
	}
	return msg
}
