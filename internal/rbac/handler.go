package rbac

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// Handler exposes the catalog read-only over HTTP.
type Handler struct {
	logger  *slog.Logger
	catalog *Catalog
	rbac    Middleware
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, catalog *Catalog, rbac Middleware) *Handler {
	return &Handler{logger: logger, catalog: catalog, rbac: rbac}
}

// MountRoles registers /roles routes.
func (h *Handler) MountRoles(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(PermRolesView))
		r.Get("/", httpx.Handle(h.logger, h.listRoles))
		r.Get("/{id}", httpx.Handle(h.logger, h.getRole))
	})
}

// MountPermissions registers /permissions routes.
func (h *Handler) MountPermissions(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(PermRolesView))
		r.Get("/", httpx.Handle(h.logger, h.listPermissions))
	})
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) error {
	httpx.OK(w, h.catalog.Roles())
	return nil
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	role, ok := h.catalog.Role(id)
	if !ok {
		return fmt.Errorf("role %q: %w", id, httpx.ErrNotFound)
	}
	httpx.OK(w, role)
	return nil
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) error {
	httpx.OK(w, h.catalog.Permissions())
	return nil
}
