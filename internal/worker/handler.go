package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

// NotificationHandler turns order.created events into admin notification
// emails. It runs on its own consumer loop, fully isolated from the request
// that created the order.
type NotificationHandler struct {
	emailServiceURL string
	adminEmail      string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewNotificationHandler(emailServiceURL, adminEmail string, client *http.Client, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		emailServiceURL: emailServiceURL,
		adminEmail:      adminEmail,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *NotificationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		// a payload that never parses would be redelivered forever; drop it
		h.logger.Error("dropping undecodable order created event", "error", err)
		return nil
	}

	h.logger.Info("processing order created event", "order_id", event.OrderID, "total", event.Total)

	if err := h.sendAdminEmail(ctx, event); err != nil {
		h.logger.Error("failed to send admin notification", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send admin notification: %w", err)
	}

	h.logger.Info("admin notified", "order_id", event.OrderID)
	return nil
}

func (h *NotificationHandler) sendAdminEmail(ctx context.Context, event domain.OrderCreatedEvent) error {
	customer := event.UserID
	if customer == "" {
		customer = "a guest"
	}

	body := map[string]string{
		"to":      h.adminEmail,
		"subject": "New order " + event.OrderID,
		"body": fmt.Sprintf("Order %s placed by %s: %d item(s), total %s.",
			event.OrderID, customer, event.ItemCount, event.Total),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
