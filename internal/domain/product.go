package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product belongs to the catalog. Stock is display-only: the checkout path
// never reserves or decrements it.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"image,omitempty"`
	Images      []string        `json:"images,omitempty"`
	Stock       int             `json:"stock"`
	Unit        string          `json:"unit,omitempty"`
	Featured    bool            `json:"featured"`
	StoreID     string          `json:"store_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
