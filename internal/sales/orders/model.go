package orders

import (
	"time"

	"github.com/tillpoint/tillpoint/internal/sales/shared"
)

// Sale statuses. Only completed sales may change.
const (
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
	StatusVoid      = "void"
)

// Line is one sold item.
type Line struct {
	InventoryItemID *int64  `json:"inventory_item_id,omitempty" validate:"omitempty,gt=0"`
	Description     string  `json:"description" validate:"required,max=200"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent,omitempty" validate:"gte=0,lte=100"`
}

// Sale is a completed till transaction.
type Sale struct {
	ID              int64     `json:"id"`
	ReceiptNumber   string    `json:"receipt_number"`
	CustomerID      *int64    `json:"customer_id,omitempty"`
	PaymentMethodID *int64    `json:"payment_method_id,omitempty"`
	Items           []Line    `json:"items"`
	Subtotal        float64   `json:"subtotal"`
	Tax             float64   `json:"tax"`
	Total           float64   `json:"total"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (s Sale) EntityID() int64 { return s.ID }

// Totals computes subtotal, tax and total for lines at taxRate, rounded to
// cents. Line discounts apply before tax.
func Totals(lines []Line, taxRate float64) (subtotal, tax, total float64) {
	for _, l := range lines {
		_, net := shared.LineAmounts(l.Quantity, l.UnitPrice, l.DiscountPercent)
		subtotal += net
	}
	subtotal = shared.Cents(subtotal)
	tax = shared.Cents(subtotal * taxRate)
	return subtotal, tax, shared.Cents(subtotal + tax)
}
