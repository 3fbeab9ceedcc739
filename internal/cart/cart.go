package cart

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Line is one product-quantity pairing pending checkout.
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	StoreID   string          `json:"store_id,omitempty"`
}

// Storage is the serialization boundary behind the cart. Implementations hold
// opaque JSON snapshots keyed by session; failures never surface to the
// shopper because in-memory state stays authoritative.
type Storage interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Cart accumulates the shopper's pending selection before an order exists.
// All mutations are total functions over in-memory state; each one snapshots
// the cart through Storage on a best-effort basis.
type Cart struct {
	key     string
	lines   []Line
	storage Storage
	logger  *slog.Logger
}

func New(key string, storage Storage, logger *slog.Logger) *Cart {
	return &Cart{
		key:     key,
		storage: storage,
		logger:  logger,
	}
}

// Restore rebuilds a cart from a previously saved snapshot. A missing or
// undecodable snapshot yields an empty cart.
func Restore(ctx context.Context, key string, storage Storage, logger *slog.Logger) *Cart {
	c := New(key, storage, logger)

	data, err := storage.Load(ctx, key)
	if err != nil {
		logger.Warn("failed to load cart snapshot", "error", err, "key", key)
		return c
	}
	if len(data) == 0 {
		return c
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		logger.Warn("failed to decode cart snapshot", "error", err, "key", key)
		return c
	}

	c.lines = lines
	return c
}

// Add merges the line into the cart: an existing line for the same product
// gains one unit, otherwise a new line with quantity 1 is appended. Stock is
// display-only, so no availability check happens here.
func (c *Cart) Add(ctx context.Context, line Line) {
	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity++
			c.persist(ctx)
			return
		}
	}

	line.Quantity = 1
	c.lines = append(c.lines, line)
	c.persist(ctx)
}

// SetQuantity sets the line quantity exactly. A quantity below 1 removes the
// line; there is no upper bound.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		c.Remove(ctx, productID)
		return
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			c.persist(ctx)
			return
		}
	}
}

func (c *Cart) Remove(ctx context.Context, productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist(ctx)
			return
		}
	}
}

func (c *Cart) Clear(ctx context.Context) {
	c.lines = nil
	if err := c.storage.Delete(ctx, c.key); err != nil {
		c.logger.Warn("failed to delete cart snapshot", "error", err, "key", c.key)
	}
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) persist(ctx context.Context) {
	data, err := json.Marshal(c.lines)
	if err != nil {
		c.logger.Warn("failed to encode cart snapshot", "error", err, "key", c.key)
		return
	}

	if err := c.storage.Save(ctx, c.key, data); err != nil {
		c.logger.Warn("failed to save cart snapshot", "error", err, "key", c.key)
	}
}
