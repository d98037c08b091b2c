package users

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Service is the user account CRUD service.
type Service = crud.Service[User, Input]

// Module wires user account endpoints.
type Module struct {
	Service *Service
	catalog *rbac.Catalog
	cost    int
	handler *crud.Handler[User, Input]
}

// New builds the module over repo.
func New(repo Repository, catalog *rbac.Catalog, deps crud.Deps) *Module {
	m := &Module{catalog: catalog, cost: bcrypt.DefaultCost}
	opts := crud.OptionsFor[User](deps, "users")
	opts.BeforeWrite = m.beforeWrite
	m.Service = crud.NewService[User, Input](repo, opts)
	m.handler = crud.NewHandler(deps.Logger, m.Service, deps.RBAC, crud.Permissions{View: rbac.PermUsersView, Manage: rbac.PermUsersManage})
	return m
}

// Owners and providers carry their fixed catalog role; staff need a catalog
// role; regular users default to the user role.
func (m *Module) beforeWrite(_ context.Context, u User, existing *User) (User, error) {
	switch u.Kind {
	case session.KindOwner:
		u.Role = session.RoleOwner
		if u.CompanyID == nil {
			return u, httpx.Invalid("company_id", "owners belong to a company")
		}
	case session.KindProvider:
		u.Role = session.RoleProvider
	case session.KindStaff:
		if !m.catalog.IsRole(u.Role) {
			return u, httpx.Invalid("role", fmt.Sprintf("unknown role %q", u.Role))
		}
	default:
		if u.Role == "" {
			u.Role = session.RoleUser
		}
	}
	switch {
	case u.password != "":
		hash, err := HashPassword(u.password, m.cost)
		if err != nil {
			return u, err
		}
		u.PasswordHash = hash
	case existing != nil:
		u.PasswordHash = existing.PasswordHash
	default:
		return u, httpx.Invalid("password", "required")
	}
	u.password = ""
	return u, nil
}

// MountRoutes registers user routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
