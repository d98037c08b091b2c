package inventory

import (
	"strings"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// Input is the create/update payload for inventory items. Status is never
// accepted from clients.
type Input struct {
	SKU          string  `json:"sku" validate:"required,max=64,printascii"`
	Name         string  `json:"name" validate:"required,max=160"`
	Category     string  `json:"category" validate:"max=80"`
	Unit         string  `json:"unit" validate:"max=16"`
	Quantity     int     `json:"quantity" validate:"gte=0"`
	ReorderLevel int     `json:"reorder_level" validate:"gte=0"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
	SellPrice    float64 `json:"sell_price" validate:"gte=0"`
}

// Record implements crud.Input.
func (in Input) Record() (Item, error) {
	if in.SellPrice > 0 && in.SellPrice < in.CostPrice {
		return Item{}, httpx.Invalid("sell_price", "must not be below cost_price")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}
	return Item{
		SKU:          strings.TrimSpace(in.SKU),
		Name:         strings.TrimSpace(in.Name),
		Category:     strings.TrimSpace(in.Category),
		Unit:         unit,
		Quantity:     in.Quantity,
		ReorderLevel: in.ReorderLevel,
		CostPrice:    in.CostPrice,
		SellPrice:    in.SellPrice,
		Status:       DeriveStatus(in.Quantity, in.ReorderLevel),
	}, nil
}
