package subscriptions

import (
	"math"
	"time"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// Input is the create/update payload.
type Input struct {
	CompanyID int64      `json:"company_id" validate:"required,gt=0"`
	Plan      string     `json:"plan" validate:"required,oneof=basic pro enterprise"`
	Status    string     `json:"status" validate:"omitempty,oneof=trial active past_due cancelled expired"`
	Amount    float64    `json:"amount" validate:"gte=0"`
	StartsAt  time.Time  `json:"starts_at" validate:"required"`
	EndsAt    *time.Time `json:"ends_at"`
}

// Record implements crud.Input.
func (in Input) Record() (Subscription, error) {
	if in.EndsAt != nil && !in.EndsAt.After(in.StartsAt) {
		return Subscription{}, httpx.Invalid("ends_at", "must be after starts_at")
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Subscription{
		CompanyID: in.CompanyID,
		Plan:      in.Plan,
		Status:    status,
		Amount:    math.Round(in.Amount*100) / 100,
		StartsAt:  in.StartsAt.UTC(),
		EndsAt:    in.EndsAt,
	}, nil
}
