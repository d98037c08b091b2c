// Package users manages login accounts of every principal kind.
package users

import (
	"strconv"
	"time"

	"github.com/tillpoint/tillpoint/internal/session"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User is a stored login account. The password hash never leaves the server.
type User struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Kind         session.Kind `json:"kind"`
	Role         string       `json:"role"`
	CompanyID    *int64       `json:"company_id,omitempty"`
	PasswordHash string       `json:"-"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	password string
}

// EntityID implements crud.Entity.
func (u User) EntityID() int64 { return u.ID }

// Account converts u into a session directory entry.
func (u User) Account() session.Account {
	acc := session.Account{
		Kind:         u.Kind,
		ID:           strconv.FormatInt(u.ID, 10),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		Disabled:     u.Status == StatusDisabled,
	}
	if u.CompanyID != nil {
		acc.CompanyID = strconv.FormatInt(*u.CompanyID, 10)
	}
	return acc
}
