package domain

// PromoCode is a named percentage discount. Codes match case-sensitively and
// only active codes may be applied at checkout.
type PromoCode struct {
	ID              string
	Code            string
	DiscountPercent int // 0..100
	Active          bool
}
