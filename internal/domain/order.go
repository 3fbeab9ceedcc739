package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// transitions holds the full lifecycle: Processing -> Shipped -> Delivered,
// with Cancelled reachable from any non-terminal state. Delivered and
// Cancelled accept nothing.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Mobile  string `json:"mobile"`
}

type Payment struct {
	Type  string `json:"type"`
	Last4 string `json:"last4,omitempty"`
}

// OrderLine is the immutable snapshot of a cart line captured at checkout,
// plus the denormalized product image for display.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	StoreID   string          `json:"store_id,omitempty"`
}

type Order struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id,omitempty"`
	Lines             []OrderLine     `json:"items"`
	ShippingAddress   Address         `json:"shipping_address"`
	Payment           Payment         `json:"payment_method"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Shipping          decimal.Decimal `json:"shipping"`
	Tax               decimal.Decimal `json:"tax"`
	Discount          decimal.Decimal `json:"discount"`
	Total             decimal.Decimal `json:"total"`
	Status            OrderStatus     `json:"status"`
	ScheduledDelivery *time.Time      `json:"scheduled_delivery_time,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TotalsConsistent reports whether total == subtotal + shipping + tax - discount.
// Client-supplied totals are trusted at creation; this only detects drift.
func (o *Order) TotalsConsistent() bool {
	expected := o.Subtotal.Add(o.Shipping).Add(o.Tax).Sub(o.Discount)
	return o.Total.Equal(expected)
}
