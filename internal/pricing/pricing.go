// Package pricing derives the checkout totals from cart contents, an
// optional promo code, and the delivery governorate. It is pure: no I/O, no
// clock, recomputed on every read.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/loaai-rashad/scentorini-shop/internal/cart"
	domain "github.com/loaai-rashad/scentorini-shop/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// Calculator holds the shipping geography rule. The flat fee has drifted
// between deployments, so it is configuration rather than a constant.
type Calculator struct {
	ShippingFee decimal.Decimal
	FreeRegion  string
}

func NewCalculator(fee decimal.Decimal, freeRegion string) Calculator {
	return Calculator{ShippingFee: fee, FreeRegion: freeRegion}
}

// Quote is the full pricing breakdown. Total = Subtotal - Discount + Shipping
// holds exactly; every component stays independently auditable on the order.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Quote prices the given lines. The promo contributes only when non-nil and
// active. The discount is intentionally not clamped to the subtotal; a code
// above 100% would push the total negative.
func (c Calculator) Quote(lines []cart.Line, promo *domain.PromoCode, governorate string) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	discount := decimal.Zero
	if promo != nil && promo.Active {
		discount = subtotal.Mul(decimal.NewFromInt(int64(promo.DiscountPercent))).Div(hundred)
	}

	shipping := c.ShippingFee
	if governorate == c.FreeRegion {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(shipping),
	}
}
