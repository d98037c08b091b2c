package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/admin"
	"github.com/tillpoint/tillpoint/internal/auth"
	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/observability"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
	"github.com/tillpoint/tillpoint/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger      *slog.Logger
	Config      *Config
	Sessions    *session.Manager
	Metrics     *observability.Metrics
	Portal      *guard.Portal
	AuthHandler *auth.Handler
	RBACHandler *rbac.Handler
	Resources   []Resource
	Admin       *admin.Handler
	JobHandler  *jobs.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Sessions: params.Sessions,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.RespondError(w, fmt.Errorf("%w: no route for %s", httpx.ErrNotFound, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusMethodNotAllowed, httpx.Envelope{
			Success: false,
			Error:   "method not allowed",
			Code:    "METHOD_NOT_ALLOWED",
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, map[string]string{"status": "ok"})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		target := guard.LoginPath
		if p := session.CurrentPrincipal(r.Context()); p != nil {
			target = guard.Landing(p.Kind())
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})

	if params.Portal != nil {
		params.Portal.MountRoutes(r)
	}

	r.Route("/api", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}
		r.Group(func(r chi.Router) {
			r.Use(guard.API())
			if params.RBACHandler != nil {
				r.Route("/roles", params.RBACHandler.MountRoles)
				r.Route("/permissions", params.RBACHandler.MountPermissions)
			}
			for _, res := range params.Resources {
				if res.Module == nil {
					continue
				}
				r.Route(res.Path, res.Module.MountRoutes)
			}
			if params.Admin != nil {
				r.Route("/admin/migrations", params.Admin.MountRoutes)
			}
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil && (params.Config == nil || params.Config.MetricsEnabled) {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
