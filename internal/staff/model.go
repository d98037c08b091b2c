// Package staff manages employee records and shift check-ins.
package staff

import "time"

// Staff statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on_leave"
)

// Member is an employee record. RoleID names a catalog role.
type Member struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	RoleID     string    `json:"role_id"`
	HourlyRate float64   `json:"hourly_rate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (m Member) EntityID() int64 { return m.ID }

// Checkin records a staff member starting a shift.
type Checkin struct {
	ID          int64     `json:"id"`
	StaffEmail  string    `json:"staff_email"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Note        string    `json:"note"`
}
