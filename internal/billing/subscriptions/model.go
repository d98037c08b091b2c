// Package subscriptions tracks the plan each tenant company pays for.
package subscriptions

import (
	"time"
)

// Plans.
const (
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Statuses. Trial, active and past-due subscriptions are live and expire once
// their end date passes.
const (
	StatusTrial     = "trial"
	StatusActive    = "active"
	StatusPastDue   = "past_due"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Subscription binds a company to a plan for a period.
type Subscription struct {
	ID        int64      `json:"id"`
	CompanyID int64      `json:"company_id"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	Amount    float64    `json:"amount"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (s Subscription) EntityID() int64 { return s.ID }

// Live reports whether s is still subject to expiry.
func (s Subscription) Live() bool {
	switch s.Status {
	case StatusTrial, StatusActive, StatusPastDue:
		return true
	}
	return false
}

// Due reports whether s is live and ended before now.
func (s Subscription) Due(now time.Time) bool {
	return s.Live() && s.EndsAt != nil && s.EndsAt.Before(now)
}
