package inventory

import (
	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Service is the inventory CRUD service.
type Service = crud.Service[Item, Input]

// Module wires inventory endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[Item, Input]
}

// New builds the module over repo.
func New(repo crud.Repository[Item], deps crud.Deps) *Module {
	svc := crud.NewService[Item, Input](repo, crud.OptionsFor[Item](deps, Namespace))
	return &Module{
		Service: svc,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{View: rbac.PermInventoryView, Manage: rbac.PermInventoryManage}),
	}
}

// Namespace names the inventory module in audit logs and caches.
const Namespace = "inventory"

// MountRoutes registers inventory routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
