package users

import (
	"strings"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Input is the create/update payload. Password may be omitted on update to
// keep the current one.
type Input struct {
	Name      string `json:"name" validate:"required,max=160"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Kind      string `json:"kind" validate:"required,oneof=software_provider owner staff regular"`
	Role      string `json:"role" validate:"max=64"`
	CompanyID *int64 `json:"company_id" validate:"omitempty,gt=0"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	Status    string `json:"status" validate:"omitempty,oneof=active disabled"`
}

// Normalize implements crud.Normalizer.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = session.NormalizeEmail(in.Email)
	in.Kind = strings.TrimSpace(in.Kind)
	in.Role = strings.TrimSpace(in.Role)
	return in
}

// Record implements crud.Input.
func (in Input) Record() (User, error) {
	in = in.Normalize()
	kind, err := session.ParseKind(in.Kind)
	if err != nil {
		return User{}, httpx.Invalid("kind", err.Error())
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return User{
		Name:      in.Name,
		Email:     in.Email,
		Kind:      kind,
		Role:      in.Role,
		CompanyID: in.CompanyID,
		Status:    status,
		password:  in.Password,
	}, nil
}
