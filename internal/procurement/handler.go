package procurement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

func newHandler(m *Module) *crud.Handler[PurchaseOrder, Input] {
	return crud.NewHandler(m.deps.Logger, m.Service, m.deps.RBAC, crud.Permissions{View: rbac.PermPurchasesView, Manage: rbac.PermPurchasesManage})
}

// MountRoutes registers purchase order routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
	r.With(m.deps.RBAC.RequireAll(rbac.PermPurchasesReceive)).
		Post("/{id}/receive", httpx.Handle(m.logger, m.handleReceive))
}

func (m *Module) handleReceive(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathID(r)
	if err != nil {
		return err
	}
	po, err := m.Receive(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.OK(w, po)
	return nil
}
