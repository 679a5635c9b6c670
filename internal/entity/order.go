package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusNew       Status = "New"
	StatusPacked    Status = "Packed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPacked, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Prev returns the status an order must hold before it can move to s.
// New is the initial state and has no predecessor.
func (s Status) Prev() (Status, bool) {
	switch s {
	case StatusPacked:
		return StatusNew, true
	case StatusShipped:
		return StatusPacked, true
	case StatusDelivered:
		return StatusShipped, true
	}
	return "", false
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "COD"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentBankTransfer
}

// OrderItem is a snapshot of one purchased line. For a custom set the
// quantity is always 1 and SelectedSamples lists the chosen sample titles.
// Snapshots carry no live product references, so later catalog edits do not
// rewrite order history.
type OrderItem struct {
	ProductID       string          `json:"id"`
	Title           string          `json:"title"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	IsCustomSet     bool            `json:"isCustomSet,omitempty"`
	SelectedSamples []string        `json:"selectedSamples,omitempty"`
}

// Order is created exactly once per successful checkout. Only Status is
// mutable afterwards, and only through the admin surface or the fulfillment
// status feed.
type Order struct {
	ID           string
	CustomerName string
	PhoneNumber  string
	Governorate  string
	Address      string

	Items []OrderItem

	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal

	PromoCode     string // empty when no code was applied
	PaymentMethod PaymentMethod
	PayerPhone    string // bank transfer reference, used for manual reconciliation

	Status    Status
	CreatedAt time.Time
}
