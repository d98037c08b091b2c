package customers

import "time"

// Customer statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Customer is a buyer known to the business.
type Customer struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	LoyaltyPoints int       `json:"loyalty_points"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (c Customer) EntityID() int64 { return c.ID }
