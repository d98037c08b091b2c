package customers

import (
	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Service is the customer CRUD service.
type Service = crud.Service[Customer, Input]

// Module wires customer endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[Customer, Input]
}

// New builds the module over repo.
func New(repo crud.Repository[Customer], deps crud.Deps) *Module {
	svc := crud.NewService[Customer, Input](repo, crud.OptionsFor[Customer](deps, "customers"))
	return &Module{
		Service: svc,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{View: rbac.PermCustomersView, Manage: rbac.PermCustomersManage}),
	}
}

// MountRoutes registers customer routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
