package cart

import "github.com/shopspring/decimal"

// Kind discriminates the two line variants explicitly instead of sniffing
// optional fields.
type Kind string

const (
	// KindCatalog is an ordinary product line clamped to its stock ceiling.
	KindCatalog Kind = "catalog"
	// KindComposite is a synthesized discovery set: quantity pinned to 1,
	// priced as the sum of its components.
	KindComposite Kind = "composite"
)

// Component references one sample inside a composite line.
type Component struct {
	SampleID string          `json:"sampleId"`
	Title    string          `json:"sampleTitle"`
	Price    decimal.Decimal `json:"price"`
}

// Line is one row of the cart. The serialized form is the persisted cart
// format and must round-trip losslessly.
type Line struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"kind"`
	Title        string          `json:"title"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stockCeiling"`
	Components   []Component     `json:"components,omitempty"`
}

func (l Line) Composite() bool { return l.Kind == KindComposite }

// Subtotal is unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
