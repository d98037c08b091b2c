package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
)

// CookieExpirer drops the session cookie. *session.Manager implements it.
type CookieExpirer interface {
	Expire(w http.ResponseWriter)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger  *slog.Logger
	service *Service
	catalog *rbac.Catalog
	cookies CookieExpirer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, catalog *rbac.Catalog) *Handler {
	return &Handler{logger: logger, service: service, catalog: catalog}
}

// WithCookies makes logout expire the session cookie through c.
func (h *Handler) WithCookies(c CookieExpirer) *Handler {
	h.cookies = c
	return h
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", httpx.Handle(h.logger, h.handleLogin))
	r.Post("/logout", httpx.Handle(h.logger, h.handleLogout))
	r.With(guard.API()).Get("/me", httpx.Handle(h.logger, h.handleMe))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return err
	}
	req = req.Normalize()
	if err := httpx.Validate(req); err != nil {
		return err
	}
	res, err := h.service.Login(r.Context(), session.FromContext(r.Context()), req.Email, req.Password)
	if err != nil {
		return err
	}
	httpx.OK(w, res)
	return nil
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Logout(r.Context(), session.FromContext(r.Context())); err != nil {
		return err
	}
	if h.cookies != nil {
		h.cookies.Expire(w)
	}
	httpx.OK(w, map[string]string{"redirect": guard.LoginPath})
	return nil
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) error {
	p := session.CurrentPrincipal(r.Context())
	me := Me{
		Principal:   session.Describe(p),
		Permissions: []string{},
		Capabilities: map[string]bool{
			string(rbac.CapAccessCheckin):    h.catalog.CanAccessCheckin(p.AuthKey()),
			string(rbac.CapViewOwnDetails):   h.catalog.CanViewOwnDetails(p.AuthKey()),
			string(rbac.CapManageRestaurant): h.catalog.CanManageRestaurant(p.AuthKey()),
		},
	}
	if role, ok := h.catalog.Role(p.AuthKey()); ok {
		me.Permissions = role.Permissions
	}
	httpx.OK(w, me)
	return nil
}
