package auth

import (
	"fmt"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
)

// ErrInvalidCredentials is the single failure reported for any unsuccessful
// login, regardless of which lookup missed.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", httpx.ErrUnauthorized)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// Normalize trims and lower-cases the email so padded input still validates.
func (r LoginRequest) Normalize() LoginRequest {
	r.Email = session.NormalizeEmail(r.Email)
	return r
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Principal session.View `json:"principal"`
	Redirect  string       `json:"redirect"`
}

// Me describes the current principal together with its catalog role.
type Me struct {
	Principal    session.View    `json:"principal"`
	Permissions  []string        `json:"permissions"`
	Capabilities map[string]bool `json:"capabilities"`
}
