package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a product counts as
// low (or out of) stock on the dashboard and in the inventory table.
const LowStockThreshold = 5

// StockStatus is the display status derived from a product's stock count.
type StockStatus string

const (
	// StatusInStock means stock is above the low-stock threshold.
	StatusInStock StockStatus = "In Stock"
	// StatusLowStock means stock is positive but at or below the threshold.
	StatusLowStock StockStatus = "Low Stock"
	// StatusOutOfStock means stock is zero or negative.
	StatusOutOfStock StockStatus = "Out of Stock"
)

// Product is a record of the inventory ledger. Stock is the single source of
// truth for remaining sellable units; sales adjust it through the store.
type Product struct {
	ID        string          `json:"id"`
	Item      string          `json:"item"`
	SKU       string          `json:"sku"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Stock     int             `json:"stock"`
	CreatedAt int64           `json:"createdAt"` // epoch milliseconds
}

// ProductInput carries the user-editable fields of a product.
type ProductInput struct {
	Item      string
	SKU       string
	CostPrice decimal.Decimal
	Stock     int
}

// Status derives the display status from the stock count.
func (p Product) Status() StockStatus {
	switch {
	case p.Stock > LowStockThreshold:
		return StatusInStock
	case p.Stock > 0:
		return StatusLowStock
	default:
		return StatusOutOfStock
	}
}

// Matches reports whether the product matches a free-text query by
// case-insensitive substring on item name or SKU. An empty query matches.
func (p Product) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Item), q) ||
		strings.Contains(strings.ToLower(p.SKU), q)
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Item) == "" || strings.TrimSpace(in.SKU) == "" {
		return ErrValidation
	}
	if in.CostPrice.IsNegative() {
		return ErrValidation
	}
	return nil
}
