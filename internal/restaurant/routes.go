package restaurant

import (
	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Service is the restaurant table CRUD service.
type Service = crud.Service[Table, Input]

// Module wires restaurant table endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[Table, Input]
}

// New builds the module over repo.
func New(repo crud.Repository[Table], deps crud.Deps) *Module {
	svc := crud.NewService[Table, Input](repo, crud.OptionsFor[Table](deps, "restaurant_tables"))
	return &Module{
		Service: svc,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{
			View:             rbac.PermRestaurantView,
			Manage:           rbac.PermRestaurantManage,
			ManageCapability: rbac.CapManageRestaurant,
		}),
	}
}

// MountRoutes registers table routes. Writes also need the restaurant
// management capability.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
