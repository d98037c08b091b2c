package companies

import (
	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Service is the company CRUD service.
type Service = crud.Service[Company, Input]

// Module wires company endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[Company, Input]
}

// New builds the module over repo.
func New(repo crud.Repository[Company], deps crud.Deps) *Module {
	svc := crud.NewService[Company, Input](repo, crud.OptionsFor[Company](deps, "companies"))
	return &Module{
		Service: svc,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{View: rbac.PermCompaniesView, Manage: rbac.PermCompaniesManage}),
	}
}

// MountRoutes registers company routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
