// Package restaurant manages the dining-room floor plan.
package restaurant

import (
	"strings"
	"time"
)

// Table statuses.
const (
	StatusAvailable    = "available"
	StatusOccupied     = "occupied"
	StatusReserved     = "reserved"
	StatusOutOfService = "out_of_service"
)

// Table is a seating position on the floor.
type Table struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Seats     int       `json:"seats"`
	Area      string    `json:"area"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements crud.Entity.
func (t Table) EntityID() int64 { return t.ID }

// Input is the create/update payload.
type Input struct {
	Label  string `json:"label" validate:"required,max=40"`
	Seats  int    `json:"seats" validate:"required,gt=0,lte=100"`
	Area   string `json:"area" validate:"max=80"`
	Status string `json:"status" validate:"omitempty,oneof=available occupied reserved out_of_service"`
}

// Record implements crud.Input.
func (in Input) Record() (Table, error) {
	status := in.Status
	if status == "" {
		status = StatusAvailable
	}
	return Table{
		Label:  strings.ToUpper(strings.TrimSpace(in.Label)),
		Seats:  in.Seats,
		Area:   strings.TrimSpace(in.Area),
		Status: status,
	}, nil
}
