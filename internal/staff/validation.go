package staff

import "strings"

// Input is the create/update payload for staff members.
type Input struct {
	Name       string  `json:"name" validate:"required,max=160"`
	Email      string  `json:"email" validate:"required,email,max=254"`
	Phone      string  `json:"phone" validate:"max=40"`
	RoleID     string  `json:"role_id" validate:"required,max=64"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
	Status     string  `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
}

// Normalize implements crud.Normalizer.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.RoleID = strings.TrimSpace(in.RoleID)
	return in
}

// Record implements crud.Input.
func (in Input) Record() (Member, error) {
	in = in.Normalize()
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Member{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		RoleID:     in.RoleID,
		HourlyRate: in.HourlyRate,
		Status:     status,
	}, nil
}

// CheckinInput is the check-in payload.
type CheckinInput struct {
	Note string `json:"note" validate:"max=280"`
}
