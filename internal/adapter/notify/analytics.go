// Package notify holds the fire-and-forget collaborators behind the
// order.placed consumers: the analytics tag and the transactional email
// provider. Both are plain JSON POST endpoints.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/loaai-rashad/scentorini-shop/internal/usecase"
)

// AnalyticsClient emits purchase events in the GA4 Measurement Protocol
// shape: one event with currency, value, items, and the transaction id.
type AnalyticsClient struct {
	endpoint      string
	measurementID string
	apiSecret     string
	httpc         *http.Client
}

func NewAnalyticsClient(endpoint, measurementID, apiSecret string) *AnalyticsClient {
	return &AnalyticsClient{
		endpoint:      endpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		httpc:         &http.Client{Timeout: 5 * time.Second},
	}
}

type gaItem struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type gaEvent struct {
	Name   string `json:"name"`
	Params struct {
		Currency      string   `json:"currency"`
		Value         string   `json:"value"`
		TransactionID string   `json:"transaction_id"`
		Items         []gaItem `json:"items"`
	} `json:"params"`
}

type gaPayload struct {
	ClientID string    `json:"client_id"`
	Events   []gaEvent `json:"events"`
}

func (c *AnalyticsClient) TrackPurchase(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	ev := gaEvent{Name: "purchase"}
	ev.Params.Currency = msg.Currency
	ev.Params.Value = msg.Total
	ev.Params.TransactionID = msg.OrderID
	for _, it := range msg.Items {
		ev.Params.Items = append(ev.Params.Items, gaItem{
			ItemID:   it.ID,
			ItemName: it.Title,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	body, err := json.Marshal(gaPayload{ClientID: msg.OrderID, Events: []gaEvent{ev}})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s", c.endpoint, c.measurementID, c.apiSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("analytics endpoint returned %d", resp.StatusCode)
	}
	return nil
}
