package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Service is the sales CRUD service.
type Service = crud.Service[Sale, Input]

// Module wires sales endpoints.
type Module struct {
	Service *Service
	handler *crud.Handler[Sale, Input]
	now     func() time.Time
}

// New builds the module over repo.
func New(repo crud.Repository[Sale], deps crud.Deps) *Module {
	m := &Module{now: time.Now}
	opts := crud.OptionsFor[Sale](deps, "sales")
	opts.BeforeWrite = m.beforeWrite
	m.Service = crud.NewService[Sale, Input](repo, opts)
	m.handler = crud.NewHandler(deps.Logger, m.Service, deps.RBAC, crud.Permissions{View: rbac.PermSalesView, Manage: rbac.PermSalesManage})
	return m
}

// A receipt number is issued once; refunded and void sales are final.
func (m *Module) beforeWrite(_ context.Context, s Sale, existing *Sale) (Sale, error) {
	if existing == nil {
		s.ReceiptNumber = shared.NewReference("RCP", m.now())
		return s, nil
	}
	if existing.Status != StatusCompleted {
		return s, fmt.Errorf("%w: sale %s is %s", httpx.ErrConflict, existing.ReceiptNumber, existing.Status)
	}
	s.ReceiptNumber = existing.ReceiptNumber
	return s, nil
}

// MountRoutes registers sales routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}
