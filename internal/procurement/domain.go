// Package procurement manages purchase orders and goods receipt.
package procurement

import (
	"math"
	"time"
)

// Purchase order lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusOrdered   = "ordered"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// Line is one ordered inventory item.
type Line struct {
	InventoryItemID int64   `json:"inventory_item_id" validate:"required,gt=0"`
	Description     string  `json:"description" validate:"max=200"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	UnitCost        float64 `json:"unit_cost" validate:"gte=0"`
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	ID         int64      `json:"id"`
	Number     string     `json:"number"`
	SupplierID int64      `json:"supplier_id"`
	Items      []Line     `json:"items"`
	Total      float64    `json:"total"`
	Status     string     `json:"status"`
	ExpectedAt *time.Time `json:"expected_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (p PurchaseOrder) EntityID() int64 { return p.ID }

// Total sums quantity times unit cost, rounded to cents.
func Total(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += float64(l.Quantity) * l.UnitCost
	}
	return math.Round(sum*100) / 100
}
