// Package paymentmethods manages the tenders a till accepts.
package paymentmethods

import (
	"strings"
	"time"
)

// Tender types.
const (
	TypeCash   = "cash"
	TypeCard   = "card"
	TypeMobile = "mobile"
	TypeBank   = "bank"
)

// Statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// PaymentMethod is a named tender.
type PaymentMethod struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (p PaymentMethod) EntityID() int64 { return p.ID }

// Input is the create/update payload.
type Input struct {
	Name   string `json:"name" validate:"required,max=80"`
	Type   string `json:"type" validate:"required,oneof=cash card mobile bank"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Record implements crud.Input.
func (in Input) Record() (PaymentMethod, error) {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return PaymentMethod{Name: strings.TrimSpace(in.Name), Type: in.Type, Status: status}, nil
}
