package suppliers

import (
	"strings"
)

// Input is the create/update payload for suppliers.
type Input struct {
	Code        string `json:"code" validate:"required,max=32,printascii"`
	Name        string `json:"name" validate:"required,max=160"`
	ContactName string `json:"contact_name" validate:"max=120"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Phone       string `json:"phone" validate:"max=40"`
	Address     string `json:"address" validate:"max=500"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Normalize implements crud.Normalizer.
func (in Input) Normalize() Input {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

// Record implements crud.Input.
func (in Input) Record() (Supplier, error) {
	in = in.Normalize()
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Supplier{
		Code:        in.Code,
		Name:        in.Name,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		Status:      status,
	}, nil
}
