package domain

import "github.com/shopspring/decimal"

// Product is a standalone catalog item. Stock is never negative; it is
// decremented only through the checkout reservation.
type Product struct {
	ID       string
	Title    string
	Subtitle string
	Price    decimal.Decimal
	Stock    int
	Images   []string
	Audience string // "him", "her", "unisex"
}

// Sample is a bundle-eligible inventory item drawn from the sample pool by
// the discovery-set builder. It shares the stock invariant with Product.
type Sample struct {
	ID    string
	Title string
	Price decimal.Decimal
	Stock int
}
