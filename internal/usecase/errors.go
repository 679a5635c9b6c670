package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the repo-level sentinel for a missing row.
	ErrNotFound = errors.New("not found")
	// ErrPromoInvalid covers a promo code that is absent or inactive.
	ErrPromoInvalid = errors.New("promo code not found or inactive")
	// ErrCartEmpty rejects a checkout with nothing to buy.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrCheckoutInFlight rejects a duplicate submission while a checkout
	// for the same cart is still running.
	ErrCheckoutInFlight = errors.New("checkout already in progress")
)

// OutOfStockError names the item whose live stock cannot cover the request.
type OutOfStockError struct {
	Item      string
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: available %d, requested %d",
		e.Item, e.Available, e.Requested)
}

// NotFoundError marks a referenced product or sample that vanished between
// page load and checkout.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q no longer exists", e.ID)
}

// MissingFieldError rejects a checkout with a required field left blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}
