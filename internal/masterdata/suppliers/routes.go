package suppliers

import (
	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Service is the supplier CRUD service.
type Service = crud.Service[Supplier, Input]

// Module wires supplier endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[Supplier, Input]
}

// New builds the module over repo.
func New(repo crud.Repository[Supplier], deps crud.Deps) *Module {
	svc := crud.NewService[Supplier, Input](repo, crud.OptionsFor[Supplier](deps, "suppliers"))
	return &Module{
		Service: svc,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{View: rbac.PermSuppliersView, Manage: rbac.PermSuppliersManage}),
	}
}

// MountRoutes registers supplier routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
