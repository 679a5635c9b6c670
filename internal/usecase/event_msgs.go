package usecase

// OrderPlacedMsg is the outbox payload published after a successful
// checkout. Analytics and email consumers read it independently; money
// travels as decimal strings.
type OrderPlacedMsg struct {
	OrderID      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	PhoneNumber  string          `json:"phoneNumber"`
	Governorate  string          `json:"governorate"`
	Currency     string          `json:"currency"`
	Total        string          `json:"total"`
	PromoCode    string          `json:"promoCode,omitempty"`
	Items        []PlacedItemMsg `json:"items"`
}

type PlacedItemMsg struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderStatusChangedMsg arrives on Kafka from the fulfillment side.
type OrderStatusChangedMsg struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"` // e.g. "PACKED", "SHIPPED", "DELIVERED"
}
