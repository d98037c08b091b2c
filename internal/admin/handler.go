// Package admin exposes platform maintenance operations to the software
// provider.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Migrator runs schema migrations.
type Migrator interface {
	Run(ctx context.Context) ([]db.MigrationStatus, error)
	Revert(ctx context.Context) (*db.MigrationStatus, error)
	Status(ctx context.Context) ([]db.MigrationStatus, error)
}

// RevertResult reports what a revert rolled back, if anything.
type RevertResult struct {
	Reverted *db.MigrationStatus `json:"reverted"`
}

// Handler serves the migration runner.
type Handler struct {
	logger   *slog.Logger
	migrator Migrator
	audit    crud.Auditor
	rbac     rbac.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, migrator Migrator, audit crud.Auditor, mw rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, migrator: migrator, audit: audit, rbac: mw}
}

// MountRoutes registers migration routes. Only software providers holding
// system.migrations get through.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(guard.API(session.KindProvider))
	r.Use(h.rbac.RequireAll(rbac.PermSystemMigrations))
	r.Get("/", httpx.Handle(h.logger, h.status))
	r.Post("/run", httpx.Handle(h.logger, h.run))
	r.Post("/revert", httpx.Handle(h.logger, h.revert))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) error {
	out, err := h.migrator.Status(r.Context())
	if err != nil {
		return err
	}
	httpx.OK(w, out)
	return nil
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) error {
	applied, err := h.migrator.Run(r.Context())
	if err != nil {
		return err
	}
	if applied == nil {
		applied = []db.MigrationStatus{}
	}
	for _, m := range applied {
		h.record(r.Context(), "run", m)
	}
	httpx.OK(w, applied)
	return nil
}

func (h *Handler) revert(w http.ResponseWriter, r *http.Request) error {
	reverted, err := h.migrator.Revert(r.Context())
	if err != nil {
		return err
	}
	if reverted != nil {
		h.record(r.Context(), "revert", *reverted)
	}
	httpx.OK(w, RevertResult{Reverted: reverted})
	return nil
}

func (h *Handler) record(ctx context.Context, action string, m db.MigrationStatus) {
	if h.audit == nil {
		return
	}
	err := h.audit.Record(ctx, shared.AuditLog{
		Actor:    crud.Actor(ctx),
		Action:   "migrations." + action,
		Entity:   "schema_migrations",
		EntityID: strconv.FormatInt(m.Version, 10),
		Meta:     map[string]any{"name": m.Name},
	})
	if err != nil {
		h.logger.Warn("audit migration", slog.Any("error", err))
	}
}
