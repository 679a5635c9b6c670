package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
	"github.com/loaai-rashad/scentorini-shop/internal/pricing"
)

// ---- fakes ----

type fakeCartStorage struct {
	data map[string][]byte
}

func (f *fakeCartStorage) Load(_ context.Context, key string) ([]byte, error) {
	return f.data[key], nil
}
func (f *fakeCartStorage) Save(_ context.Context, key string, b []byte) error {
	f.data[key] = b
	return nil
}
func (f *fakeCartStorage) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type fakeInventory struct {
	products map[string]*domain.Product
	samples  map[string]*domain.Sample
	reserved [][]StockDecrement
}

func (f *fakeInventory) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeInventory) ListProducts(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeInventory) GetSample(_ context.Context, id string) (*domain.Sample, error) {
	s, ok := f.samples[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeInventory) ListSamples(_ context.Context) ([]domain.Sample, error) {
	var out []domain.Sample
	for _, s := range f.samples {
		out = append(out, *s)
	}
	return out, nil
}

// Reserve mirrors the real repo: every decrement applies only where
// stock >= qty, and one failing row aborts the whole batch.
func (f *fakeInventory) Reserve(_ context.Context, decs []StockDecrement) error {
	for _, d := range decs {
		switch d.Pool {
		case PoolProducts:
			p, ok := f.products[d.ID]
			if !ok {
				return &NotFoundError{ID: d.ID}
			}
			if p.Stock < d.Qty {
				return &OutOfStockError{Item: d.Title, Available: p.Stock, Requested: d.Qty}
			}
		case PoolSamples:
			s, ok := f.samples[d.ID]
			if !ok {
				return &NotFoundError{ID: d.ID}
			}
			if s.Stock < d.Qty {
				return &OutOfStockError{Item: d.Title, Available: s.Stock, Requested: d.Qty}
			}
		}
	}
	for _, d := range decs {
		if d.Pool == PoolProducts {
			f.products[d.ID].Stock -= d.Qty
		} else {
			f.samples[d.ID].Stock -= d.Qty
		}
	}
	f.reserved = append(f.reserved, decs)
	return nil
}

type fakeOrders struct {
	created []*domain.Order
	failing bool
}

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	if f.failing {
		return assert.AnError
	}
	f.created = append(f.created, o)
	return nil
}
func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.Order, error) {
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}
func (f *fakeOrders) List(_ context.Context) ([]domain.Order, error) { return nil, nil }
func (f *fakeOrders) UpdateStatus(_ context.Context, _ string, _ domain.Status) error {
	return nil
}
func (f *fakeOrders) UpdateStatusIf(_ context.Context, _ string, _, _ domain.Status) (bool, error) {
	return false, nil
}
func (f *fakeOrders) Delete(_ context.Context, _ string) error { return nil }

type fakePromos struct {
	active map[string]*domain.PromoCode
}

func (f *fakePromos) FindActive(_ context.Context, code string) (*domain.PromoCode, error) {
	p, ok := f.active[code]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
func (f *fakePromos) List(_ context.Context) ([]domain.PromoCode, error)  { return nil, nil }
func (f *fakePromos) Create(_ context.Context, _ *domain.PromoCode) error { return nil }
func (f *fakePromos) SetActive(_ context.Context, _ string, _ bool) error { return nil }

type fakeOutbox struct {
	payloads [][]byte
}

func (f *fakeOutbox) InsertOrderPlaced(_ context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeIdem struct {
	locks    map[string]bool
	values   map[string]string
	released []string
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{locks: map[string]bool{}, values: map[string]string{}}
}

func (f *fakeIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if f.locks[k] {
		return false, nil
	}
	f.locks[k] = true
	return true, nil
}
func (f *fakeIdem) Release(_ context.Context, scope, key string) error {
	k := scope + ":" + key
	delete(f.locks, k)
	f.released = append(f.released, k)
	return nil
}
func (f *fakeIdem) Remember(_ context.Context, scope, key, value string) error {
	f.values[scope+":"+key] = value
	return nil
}
func (f *fakeIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := f.values[scope+":"+key]
	return v, ok, nil
}

// ---- fixture ----

type checkoutFixture struct {
	carts  *fakeCartStorage
	inv    *fakeInventory
	orders *fakeOrders
	promos *fakePromos
	outbox *fakeOutbox
	idem   *fakeIdem
	uc     *Checkout
}

func newFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		carts: &fakeCartStorage{data: map[string][]byte{}},
		inv: &fakeInventory{
			products: map[string]*domain.Product{
				"p1": {ID: "p1", Title: "Amber Night", Price: decimal.NewFromInt(450), Stock: 5},
				"p2": {ID: "p2", Title: "Sea Breeze", Price: decimal.NewFromInt(300), Stock: 1},
			},
			samples: map[string]*domain.Sample{
				"s1": {ID: "s1", Title: "Oud", Price: decimal.NewFromInt(60), Stock: 2},
				"s2": {ID: "s2", Title: "Rose", Price: decimal.NewFromInt(60), Stock: 2},
				"s3": {ID: "s3", Title: "Musk", Price: decimal.NewFromInt(60), Stock: 2},
			},
		},
		orders: &fakeOrders{},
		promos: &fakePromos{active: map[string]*domain.PromoCode{
			"WELCOME10": {ID: "pr1", Code: "WELCOME10", DiscountPercent: 10, Active: true},
		}},
		outbox: &fakeOutbox{},
		idem:   newFakeIdem(),
	}
	pricer := pricing.NewCalculator(decimal.NewFromInt(75), "Ismailia")
	f.uc = NewCheckout(f.carts, f.inv, f.orders, f.promos, f.outbox, f.idem, pricer, "EGP")
	return f
}

func (f *checkoutFixture) seedCart(t *testing.T, cartID string, lines ...cart.Line) {
	t.Helper()
	raw, err := json.Marshal(lines)
	require.NoError(t, err)
	f.carts.data[cartID] = raw
}

func validInput(cartID string) CheckoutInput {
	return CheckoutInput{
		CartID:        cartID,
		CustomerName:  "Loaai",
		PhoneNumber:   "01000000000",
		Governorate:   "Cairo",
		Address:       "12 Nile St",
		PaymentMethod: domain.PaymentCashOnDelivery,
	}
}

func catalogLine(id, title string, price int64, qty, ceiling int) cart.Line {
	return cart.Line{
		ID:           id,
		Kind:         cart.KindCatalog,
		Title:        title,
		UnitPrice:    decimal.NewFromInt(price),
		Quantity:     qty,
		StockCeiling: ceiling,
	}
}

// ---- tests ----

func TestCheckoutSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 2, 5))

	order, err := f.uc.Execute(context.Background(), validInput("c1"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNew, order.Status)
	assert.True(t, decimal.NewFromInt(900).Equal(order.Subtotal))
	assert.True(t, decimal.NewFromInt(75).Equal(order.Shipping))
	assert.True(t, decimal.NewFromInt(975).Equal(order.Total))

	// stock reserved, order stored, cart cleared, event queued
	assert.Equal(t, 3, f.inv.products["p1"].Stock)
	require.Len(t, f.orders.created, 1)
	assert.NotContains(t, f.carts.data, "c1")
	require.Len(t, f.outbox.payloads, 1)

	var msg OrderPlacedMsg
	require.NoError(t, json.Unmarshal(f.outbox.payloads[0], &msg))
	assert.Equal(t, order.ID, msg.OrderID)
	assert.Equal(t, "EGP", msg.Currency)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, 2, msg.Items[0].Quantity)
}

func TestCheckoutMissingFields(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 1, 5))

	in := validInput("c1")
	in.Address = "   "

	_, err := f.uc.Execute(context.Background(), in)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "address", missing.Field)
	assert.Empty(t, f.orders.created)
	// failed attempts release the lock so the customer can retry
	assert.Len(t, f.idem.released, 1)
}

func TestCheckoutBankTransferNeedsPayerPhone(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 1, 5))

	in := validInput("c1")
	in.PaymentMethod = domain.PaymentBankTransfer

	_, err := f.uc.Execute(context.Background(), in)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "payerPhone", missing.Field)

	in.PayerPhone = "01111111111"
	order, err := f.uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "01111111111", order.PayerPhone)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Execute(context.Background(), validInput("nope"))
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCheckoutUnknownPromo(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 1, 5))

	in := validInput("c1")
	in.PromoCode = "welcome10" // wrong case: lookup is exact

	_, err := f.uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, ErrPromoInvalid)
	assert.Empty(t, f.orders.created)
	assert.Equal(t, 5, f.inv.products["p1"].Stock)
}

func TestCheckoutAppliesPromo(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 2, 5))

	in := validInput("c1")
	in.PromoCode = "WELCOME10"
	in.Governorate = "Ismailia"

	order, err := f.uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "WELCOME10", order.PromoCode)
	assert.True(t, decimal.NewFromInt(90).Equal(order.Discount), order.Discount.String())
	assert.True(t, order.Shipping.IsZero())
	assert.True(t, decimal.NewFromInt(810).Equal(order.Total), order.Total.String())
}

func TestCheckoutOutOfStockLeavesEverythingIntact(t *testing.T) {
	f := newFixture(t)
	// cart quantity was captured before stock dropped to 1
	f.seedCart(t, "c1", catalogLine("p2", "Sea Breeze", 300, 3, 3))

	_, err := f.uc.Execute(context.Background(), validInput("c1"))

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "Sea Breeze", oos.Item)
	assert.Equal(t, 1, oos.Available)
	assert.Equal(t, 3, oos.Requested)

	// no order, no decrement, cart preserved for adjustment
	assert.Empty(t, f.orders.created)
	assert.Equal(t, 1, f.inv.products["p2"].Stock)
	assert.Contains(t, f.carts.data, "c1")
}

func TestCheckoutCompositeSetDecrementsEachSample(t *testing.T) {
	f := newFixture(t)
	set := cart.Line{
		ID:        "set-1",
		Kind:      cart.KindComposite,
		Title:     "Discovery Set",
		UnitPrice: decimal.NewFromInt(180),
		Quantity:  1,
		Components: []cart.Component{
			{SampleID: "s1", Title: "Oud", Price: decimal.NewFromInt(60)},
			{SampleID: "s2", Title: "Rose", Price: decimal.NewFromInt(60)},
			{SampleID: "s3", Title: "Musk", Price: decimal.NewFromInt(60)},
		},
	}
	f.seedCart(t, "c1", set)

	order, err := f.uc.Execute(context.Background(), validInput("c1"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.inv.samples["s1"].Stock)
	assert.Equal(t, 1, f.inv.samples["s2"].Stock)
	assert.Equal(t, 1, f.inv.samples["s3"].Stock)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.True(t, item.IsCustomSet)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, []string{"Oud", "Rose", "Musk"}, item.SelectedSamples)
}

func TestCheckoutInFlightLockRejectsSecondAttempt(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 1, 5))

	locked, err := f.idem.TryLock(context.Background(), "checkout", "c1")
	require.NoError(t, err)
	require.True(t, locked)

	_, err = f.uc.Execute(context.Background(), validInput("c1"))
	assert.ErrorIs(t, err, ErrCheckoutInFlight)
}

func TestCheckoutRaceOverLastUnit(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p2", "Sea Breeze", 300, 1, 1))
	f.seedCart(t, "c2", catalogLine("p2", "Sea Breeze", 300, 1, 1))

	first, err := f.uc.Execute(context.Background(), validInput("c1"))
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = f.uc.Execute(context.Background(), validInput("c2"))
	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 0, f.inv.products["p2"].Stock)
	assert.Len(t, f.orders.created, 1)
}

func TestCheckoutPersistFailureLeavesStockDecremented(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 1, 5))
	f.orders.failing = true

	_, err := f.uc.Execute(context.Background(), validInput("c1"))
	require.Error(t, err)

	// documented tradeoff: reservation is not compensated
	assert.Equal(t, 4, f.inv.products["p1"].Stock)
	assert.Contains(t, f.carts.data, "c1")
	assert.Len(t, f.idem.released, 1)
}

func TestCheckoutRemembersOrderID(t *testing.T) {
	f := newFixture(t)
	f.seedCart(t, "c1", catalogLine("p1", "Amber Night", 450, 1, 5))

	order, err := f.uc.Execute(context.Background(), validInput("c1"))
	require.NoError(t, err)

	got, ok, err := f.idem.Recall(context.Background(), "checkout", "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, order.ID, got)
}
