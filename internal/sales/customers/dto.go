package customers

import "strings"

// Input is the create/update payload for customers.
type Input struct {
	Name          string `json:"name" validate:"required,max=160"`
	Email         string `json:"email" validate:"omitempty,email,max=254"`
	Phone         string `json:"phone" validate:"max=40"`
	Address       string `json:"address" validate:"max=500"`
	LoyaltyPoints int    `json:"loyalty_points" validate:"gte=0"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Normalize implements crud.Normalizer.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

// Record implements crud.Input.
func (in Input) Record() (Customer, error) {
	in = in.Normalize()
	c := Customer{
		Name:          in.Name,
		Phone:         in.Phone,
		Address:       in.Address,
		LoyaltyPoints: in.LoyaltyPoints,
		Status:        in.Status,
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if in.Email != "" {
		email := in.Email
		c.Email = &email
	}
	return c, nil
}
