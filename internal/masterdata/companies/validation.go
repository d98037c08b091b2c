package companies

import "strings"

// Input is the create/update payload for companies.
type Input struct {
	Name    string `json:"name" validate:"required,max=160"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Address string `json:"address" validate:"max=500"`
	Status  string `json:"status" validate:"omitempty,oneof=active suspended"`
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
func (in Input) Record() (Company, error) {
	in = in.Normalize()
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Company{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Status:  status,
	}, nil
}
