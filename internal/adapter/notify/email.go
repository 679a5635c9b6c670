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

// EmailClient sends the order-confirmation template through an EmailJS-style
// provider: a template id plus a flat key-value parameter map.
type EmailClient struct {
	endpoint   string
	serviceID  string
	templateID string
	userID     string
	httpc      *http.Client
}

func NewEmailClient(endpoint, serviceID, templateID, userID string) *EmailClient {
	return &EmailClient{
		endpoint:   endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		userID:     userID,
		httpc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type emailRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (c *EmailClient) SendOrderConfirmation(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	params := map[string]string{
		"order_id":      msg.OrderID,
		"customer_name": msg.CustomerName,
		"phone_number":  msg.PhoneNumber,
		"governorate":   msg.Governorate,
		"total":         msg.Total,
		"currency":      msg.Currency,
		"items":         itemsSummary(msg.Items),
	}
	if msg.PromoCode != "" {
		params["promo_code"] = msg.PromoCode
	}

	body, err := json.Marshal(emailRequest{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.userID,
		TemplateParams: params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
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
		return fmt.Errorf("email provider returned %d", resp.StatusCode)
	}
	return nil
}

func itemsSummary(items []usecase.PlacedItemMsg) string {
	var buf bytes.Buffer
	for i, it := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s x%d (%s)", it.Title, it.Quantity, it.Price)
	}
	return buf.String()
}
