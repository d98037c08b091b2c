package orders

import "strings"

// Input is the create/update payload for sales.
type Input struct {
	CustomerID      *int64  `json:"customer_id" validate:"omitempty,gt=0"`
	PaymentMethodID *int64  `json:"payment_method_id" validate:"omitempty,gt=0"`
	Items           []Line  `json:"items" validate:"required,min=1,max=500,dive"`
	TaxRate         float64 `json:"tax_rate" validate:"gte=0,lte=1"`
	Status          string  `json:"status" validate:"omitempty,oneof=completed refunded void"`
}

// Record implements crud.Input.
func (in Input) Record() (Sale, error) {
	items := make([]Line, len(in.Items))
	for i, l := range in.Items {
		l.Description = strings.TrimSpace(l.Description)
		items[i] = l
	}
	subtotal, tax, total := Totals(items, in.TaxRate)
	status := in.Status
	if status == "" {
		status = StatusCompleted
	}
	return Sale{
		CustomerID:      in.CustomerID,
		PaymentMethodID: in.PaymentMethodID,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           total,
		Status:          status,
	}, nil
}
