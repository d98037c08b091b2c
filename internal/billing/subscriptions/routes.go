package subscriptions

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Service is the subscription CRUD service.
type Service = crud.Service[Subscription, Input]

// Module wires subscription endpoints and the expiry sweep.
type Module struct {
	Service *Service
	repo    Repository
	logger  *slog.Logger
	handler *crud.Handler[Subscription, Input]
}

// New builds the module over repo.
func New(repo Repository, deps crud.Deps) *Module {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	svc := crud.NewService[Subscription, Input](repo, crud.OptionsFor[Subscription](deps, "subscriptions"))
	return &Module{
		Service: svc,
		repo:    repo,
		logger:  logger,
		handler: crud.NewHandler(deps.Logger, svc, deps.RBAC, crud.Permissions{View: rbac.PermSubscriptionsView, Manage: rbac.PermSubscriptionsManage}),
	}
}

// MountRoutes registers subscription routes.
func (m *Module) MountRoutes(r chi.Router) {
	m.handler.MountRoutes(r)
}

// ExpireDue expires every live subscription that ended before now.
func (m *Module) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := m.repo.ExpireDue(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	for _, id := range ids {
		m.Service.Record(ctx, "expire", id, nil)
	}
	m.Service.Invalidate(ctx)
	m.logger.Info("subscriptions expired", slog.Int("count", len(ids)))
	return len(ids), nil
}
