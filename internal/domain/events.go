package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is published after an order commits and feeds the
// best-effort admin notification pipeline.
type OrderCreatedEvent struct {
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Timestamp time.Time       `json:"timestamp"`
}
