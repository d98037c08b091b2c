package suppliers

import (
	"time"
)

// Supplier statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Supplier represents a supplier entity
type Supplier struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (s Supplier) EntityID() int64 { return s.ID }
