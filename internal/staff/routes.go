package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
)

const recentCheckins = 10

// Service is the staff CRUD service.
type Service = crud.Service[Member, Input]

// Store is the persistence the module needs.
type Store interface {
	Repository
	CheckinStore
}

// Module wires staff endpoints.
type Module struct {
	Service *Service
	store   Store
	catalog *rbac.Catalog
	rbac    rbac.Middleware
	logger  *slog.Logger
	handler *crud.Handler[Member, Input]
}

// New builds the module. Role ids are checked against catalog.
func New(store Store, catalog *rbac.Catalog, deps crud.Deps) *Module {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Module{store: store, catalog: catalog, rbac: deps.RBAC, logger: logger}
	opts := crud.OptionsFor[Member](deps, "staff")
	opts.BeforeWrite = m.beforeWrite
	m.Service = crud.NewService[Member, Input](store, opts)
	m.handler = crud.NewHandler(deps.Logger, m.Service, deps.RBAC, crud.Permissions{View: rbac.PermStaffView, Manage: rbac.PermStaffManage})
	return m
}

func (m *Module) beforeWrite(_ context.Context, rec Member, _ *Member) (Member, error) {
	if !m.catalog.IsRole(rec.RoleID) {
		return rec, httpx.Invalid("role_id", fmt.Sprintf("unknown role %q", rec.RoleID))
	}
	return rec, nil
}

// MountRoutes registers staff routes. The self-service routes are mounted
// before the CRUD routes so /me and /checkin never parse as ids.
func (m *Module) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(guard.API(session.KindStaff))
		r.With(m.rbac.RequireCapability(rbac.CapViewOwnDetails)).Get("/me", httpx.Handle(m.logger, m.me))
		r.With(m.rbac.RequireCapability(rbac.CapAccessCheckin)).Post("/checkin", httpx.Handle(m.logger, m.checkin))
	})
	m.handler.MountRoutes(r)
}

// Profile is the caller's own staff view.
type Profile struct {
	Principal session.View `json:"principal"`
	Record    *Member      `json:"record"`
	Checkins  []Checkin    `json:"checkins"`
}

// Me returns the profile of the staff principal in ctx. A staff login with no
// HR record yields a profile without one.
func (m *Module) Me(ctx context.Context) (Profile, error) {
	p := session.CurrentPrincipal(ctx)
	if p == nil {
		return Profile{}, fmt.Errorf("%w: login required", httpx.ErrUnauthorized)
	}
	email := p.Identity().Email
	profile := Profile{Principal: session.Describe(p), Checkins: []Checkin{}}
	rec, err := m.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		profile.Record = &rec
	case !errors.Is(err, httpx.ErrNotFound):
		return Profile{}, err
	}
	checkins, err := m.store.RecentCheckins(ctx, email, recentCheckins)
	if err != nil {
		return Profile{}, err
	}
	profile.Checkins = checkins
	return profile, nil
}

// Checkin records a shift start for the staff principal in ctx.
func (m *Module) Checkin(ctx context.Context, in CheckinInput) (Checkin, error) {
	if err := httpx.Validate(in); err != nil {
		return Checkin{}, err
	}
	p := session.CurrentPrincipal(ctx)
	if p == nil {
		return Checkin{}, fmt.Errorf("%w: login required", httpx.ErrUnauthorized)
	}
	c, err := m.store.RecordCheckin(ctx, p.Identity().Email, strings.TrimSpace(in.Note))
	if err != nil {
		return Checkin{}, err
	}
	m.Service.Record(ctx, "checkin", c.ID, map[string]any{"email": c.StaffEmail})
	m.logger.Info("staff checked in", slog.String("email", c.StaffEmail))
	return c, nil
}

func (m *Module) me(w http.ResponseWriter, r *http.Request) error {
	profile, err := m.Me(r.Context())
	if err != nil {
		return err
	}
	httpx.OK(w, profile)
	return nil
}

func (m *Module) checkin(w http.ResponseWriter, r *http.Request) error {
	var in CheckinInput
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &in); err != nil {
			return err
		}
	}
	c, err := m.Checkin(r.Context(), in)
	if err != nil {
		return err
	}
	httpx.Created(w, c)
	return nil
}
