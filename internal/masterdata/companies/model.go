package companies

import (
	"time"
)

// Company statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Company is a tenant business served by the platform.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (c Company) EntityID() int64 { return c.ID }
