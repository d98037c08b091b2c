// Package session tracks the authenticated principal of a browser session.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which of the four principal variants is active.
type Kind string

const (
	KindStaff    Kind = "staff"
	KindRegular  Kind = "regular"
	KindOwner    Kind = "owner"
	KindProvider Kind = "software_provider"
)

// Priority is the canonical resolution order. Login matches accounts and
// Restore probes storage keys in this order.
var Priority = []Kind{KindProvider, KindOwner, KindStaff, KindRegular}

// Role strings carried by the non-staff kinds.
const (
	RoleOwner    = "owner"
	RoleProvider = "software_provider"
	RoleUser     = "user"
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("session: unknown principal kind")

// ParseKind validates a kind string.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case KindStaff, KindRegular, KindOwner, KindProvider:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Identity holds the attributes shared by every principal kind.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal is the authenticated subject. The set of implementations is closed:
// StaffMember, RegularUser, Owner and SoftwareProvider.
type Principal interface {
	Kind() Kind
	// AuthKey is the catalog role the principal is authorised as.
	AuthKey() string
	Identity() Identity
	sealed()
}

// StaffMember is an employee authorised through a catalog role.
type StaffMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID string `json:"role_id"`
}

// RegularUser is a dashboard user without staff duties.
type RegularUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Owner owns a single business.
type Owner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID string `json:"company_id,omitempty"`
}

// SoftwareProvider operates the platform across tenants.
type SoftwareProvider struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (StaffMember) Kind() Kind      { return KindStaff }
func (RegularUser) Kind() Kind      { return KindRegular }
func (Owner) Kind() Kind            { return KindOwner }
func (SoftwareProvider) Kind() Kind { return KindProvider }

func (p StaffMember) AuthKey() string { return p.RoleID }

func (p RegularUser) AuthKey() string {
	if p.Role == "" {
		return RoleUser
	}
	return p.Role
}

func (Owner) AuthKey() string            { return RoleOwner }
func (SoftwareProvider) AuthKey() string { return RoleProvider }

func (p StaffMember) Identity() Identity      { return Identity{ID: p.ID, Name: p.Name, Email: p.Email} }
func (p RegularUser) Identity() Identity      { return Identity{ID: p.ID, Name: p.Name, Email: p.Email} }
func (p Owner) Identity() Identity            { return Identity{ID: p.ID, Name: p.Name, Email: p.Email} }
func (p SoftwareProvider) Identity() Identity { return Identity{ID: p.ID, Name: p.Name, Email: p.Email} }

func (StaffMember) sealed()      {}
func (RegularUser) sealed()      {}
func (Owner) sealed()            {}
func (SoftwareProvider) sealed() {}

// View is the JSON shape of a principal returned to clients.
type View struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	AuthKey string `json:"role"`
}

// Describe renders p for API responses.
func Describe(p Principal) View {
	id := p.Identity()
	return View{Kind: p.Kind(), ID: id.ID, Name: id.Name, Email: id.Email, AuthKey: p.AuthKey()}
}

func storageKey(k Kind) string {
	return "principal:" + string(k)
}

func encode(p Principal) ([]byte, error) {
	return json.Marshal(p)
}

func decode(kind Kind, data []byte) (Principal, error) {
	var (
		p   Principal
		err error
	)
	switch kind {
	case KindStaff:
		var v StaffMember
		err = json.Unmarshal(data, &v)
		if err == nil && v.RoleID == "" {
			err = errors.New("staff principal without role")
		}
		p = v
	case KindRegular:
		var v RegularUser
		err = json.Unmarshal(data, &v)
		p = v
	case KindOwner:
		var v Owner
		err = json.Unmarshal(data, &v)
		p = v
	case KindProvider:
		var v SoftwareProvider
		err = json.Unmarshal(data, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s principal: %w", kind, err)
	}
	if p.Identity().ID == "" || p.Identity().Email == "" {
		return nil, fmt.Errorf("decode %s principal: missing identity", kind)
	}
	return p, nil
}
