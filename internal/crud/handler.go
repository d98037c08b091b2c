package crud

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
)

// IdempotencyHeader carries the client-chosen key for create requests.
const IdempotencyHeader = "Idempotency-Key"

// Permissions gate the read and write halves of a resource. A non-empty
// ManageCapability is required on top of Manage for writes.
type Permissions struct {
	View             string
	Manage           string
	ManageCapability rbac.Capability
}

// Handler exposes a Service as REST endpoints.
type Handler[T Entity, I Input[T]] struct {
	logger  *slog.Logger
	service *Service[T, I]
	rbac    rbac.Middleware
	perms   Permissions
}

// NewHandler constructs a Handler.
func NewHandler[T Entity, I Input[T]](logger *slog.Logger, service *Service[T, I], mw rbac.Middleware, perms Permissions) *Handler[T, I] {
	return &Handler[T, I]{logger: logger, service: service, rbac: mw, perms: perms}
}

// MountRoutes registers list, stats, read, create, update and delete.
func (h *Handler[T, I]) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(h.perms.View, h.perms.Manage))
		r.Get("/", httpx.Handle(h.logger, h.list))
		r.Get("/stats", httpx.Handle(h.logger, h.stats))
		r.Get("/{id}", httpx.Handle(h.logger, h.get))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(h.perms.Manage))
		if h.perms.ManageCapability != "" {
			r.Use(h.rbac.RequireCapability(h.perms.ManageCapability))
		}
		r.Post("/", httpx.Handle(h.logger, h.create))
		r.Put("/{id}", httpx.Handle(h.logger, h.update))
		r.Delete("/{id}", httpx.Handle(h.logger, h.delete))
	})
}

func (h *Handler[T, I]) list(w http.ResponseWriter, r *http.Request) error {
	page, err := h.service.List(r.Context(), httpx.ParseListFilters(r))
	if err != nil {
		return err
	}
	httpx.OK(w, page)
	return nil
}

func (h *Handler[T, I]) stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		return err
	}
	httpx.OK(w, stats)
	return nil
}

func (h *Handler[T, I]) get(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathID(r)
	if err != nil {
		return err
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.OK(w, rec)
	return nil
}

func (h *Handler[T, I]) create(w http.ResponseWriter, r *http.Request) error {
	var in I
	if err := httpx.DecodeJSON(r, &in); err != nil {
		return err
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	rec, err := h.service.Create(r.Context(), in, key)
	if err != nil {
		return err
	}
	httpx.Created(w, rec)
	return nil
}

func (h *Handler[T, I]) update(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathID(r)
	if err != nil {
		return err
	}
	var in I
	if err := httpx.DecodeJSON(r, &in); err != nil {
		return err
	}
	rec, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		return err
	}
	httpx.OK(w, rec)
	return nil
}

func (h *Handler[T, I]) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathID(r)
	if err != nil {
		return err
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		return err
	}
	httpx.OK(w, map[string]int64{"id": id})
	return nil
}
