package procurement

import (
	"strings"
	"time"
)

// Input is the create/update payload for purchase orders. Orders can only
// become received through the receive endpoint.
type Input struct {
	SupplierID int64      `json:"supplier_id" validate:"required,gt=0"`
	Items      []Line     `json:"items" validate:"required,min=1,max=200,dive"`
	Status     string     `json:"status" validate:"omitempty,oneof=draft ordered cancelled"`
	ExpectedAt *time.Time `json:"expected_at"`
}

// Record implements crud.Input.
func (in Input) Record() (PurchaseOrder, error) {
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	items := make([]Line, len(in.Items))
	for i, l := range in.Items {
		l.Description = strings.TrimSpace(l.Description)
		items[i] = l
	}
	return PurchaseOrder{
		SupplierID: in.SupplierID,
		Items:      items,
		Total:      Total(items),
		Status:     status,
		ExpectedAt: in.ExpectedAt,
	}, nil
}
