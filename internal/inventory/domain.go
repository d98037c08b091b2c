// Package inventory manages stock items and their derived stock status.
package inventory

import (
	"time"
)

// Stock statuses, derived from quantity and reorder level.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// Item is a stocked product.
type Item struct {
	ID           int64     `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorder_level"`
	CostPrice    float64   `json:"cost_price"`
	SellPrice    float64   `json:"sell_price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (i Item) EntityID() int64 { return i.ID }

// DeriveStatus maps a quantity onto a stock status.
func DeriveStatus(quantity, reorderLevel int) string {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= reorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
