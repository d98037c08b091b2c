package guard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
)

var principals = map[session.Kind]session.Principal{
	session.KindOwner:    session.Owner{ID: "o", Email: "o@x"},
	session.KindProvider: session.SoftwareProvider{ID: "p", Email: "p@x"},
	session.KindStaff:    session.StaffMember{ID: "s", Email: "s@x", RoleID: "cashier"},
	session.KindRegular:  session.RegularUser{ID: "u", Email: "u@x"},
}

func TestEvaluate(t *testing.T) {
	d := Evaluate(nil, session.KindOwner)
	assert.Equal(t, Unauthenticated, d.State)
	assert.Equal(t, LoginPath, d.Redirect)

	d = Evaluate(principals[session.KindOwner], session.KindStaff, session.KindRegular)
	assert.Equal(t, WrongKind, d.State)
	assert.Equal(t, "/owner", d.Redirect)

	d = Evaluate(principals[session.KindStaff], session.KindStaff)
	assert.Equal(t, Authorized, d.State)
	assert.Empty(t, d.Redirect)
}

func TestEmptyAllowedSetAdmitsEveryKind(t *testing.T) {
	for kind, p := range principals {
		assert.Equal(t, Authorized, Evaluate(p).State, kind)
	}
	assert.Equal(t, Unauthenticated, Evaluate(nil).State)
}

func TestWrongKindRedirectDependsOnCurrentKind(t *testing.T) {
	want := map[session.Kind]string{
		session.KindOwner:    "/owner",
		session.KindProvider: "/provider",
		session.KindStaff:    "/checkin",
		session.KindRegular:  "/dashboard",
	}
	allowedSets := [][]session.Kind{{session.KindStaff}, {session.KindOwner}, {session.KindProvider, session.KindRegular}}
	for kind, p := range principals {
		for _, allowed := range allowedSets {
			d := Evaluate(p, allowed...)
			if d.State == WrongKind {
				assert.Equal(t, want[kind], d.Redirect)
			}
		}
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "wrong_kind", WrongKind.String())
	assert.Equal(t, "unknown", State(42).String())
}

func newRouter(t *testing.T) (http.Handler, *session.Store) {
	t.Helper()
	catalog, err := rbac.Default()
	require.NoError(t, err)
	dir, err := session.DemoDirectory()
	require.NoError(t, err)
	store := session.NewStore(session.NewMemoryStorage(), dir, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWithStore(req.Context(), store)))
		})
	})
	NewPortal(nil, catalog).MountRoutes(r)
	r.With(API(session.KindStaff)).Get("/api/staff-only", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r, store
}

func do(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestOwnerVisitingStaffPageIsSentToOwnerPortal(t *testing.T) {
	h, store := newRouter(t)
	ok, err := store.Login(context.Background(), "owner@company.com", "whatever")
	require.NoError(t, err)
	require.True(t, ok)

	rec := do(h, "/checkin")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/owner", rec.Header().Get("Location"))

	rec = do(h, "/owner")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data Page `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, session.KindOwner, env.Data.Principal.Kind)
	assert.True(t, env.Data.Capabilities[string(rbac.CapManageRestaurant)])
	assert.NotEmpty(t, env.Data.Sections)
}

func TestLogoutRetriggersUnauthenticated(t *testing.T) {
	h, store := newRouter(t)
	ctx := context.Background()
	ok, err := store.Login(ctx, "cashier@company.com", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, do(h, "/checkin").Code)

	require.NoError(t, store.Logout(ctx))
	rec := do(h, "/checkin")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestLandingPagesAdmitTheirOwnKind(t *testing.T) {
	h, store := newRouter(t)
	for _, email := range []string{"owner@company.com", "provider@tillpoint.dev", "chef@company.com", "user@company.com"} {
		ok, err := store.Login(context.Background(), email, "")
		require.NoError(t, err)
		require.True(t, ok)
		landing := Landing(store.Current().Kind())
		assert.Equal(t, http.StatusOK, do(h, landing).Code, email)

		rec := do(h, LoginPath)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, landing, rec.Header().Get("Location"))
	}
}

func TestLoginPageForAnonymousVisitor(t *testing.T) {
	h, _ := newRouter(t)
	rec := do(h, LoginPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Sign in"`)
}

func TestAPIGuardEnvelopes(t *testing.T) {
	h, store := newRouter(t)

	rec := do(h, "/api/staff-only")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, httpx.CodeUnauthorized, env.Code)
	assert.Equal(t, LoginPath, env.Details["redirect"])

	ok, err := store.Login(context.Background(), "user@company.com", "")
	require.NoError(t, err)
	require.True(t, ok)
	rec = do(h, "/api/staff-only")
	require.Equal(t, http.StatusForbidden, rec.Code)
	env = httpx.Envelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "/dashboard", env.Details["redirect"])

	ok, err = store.Login(context.Background(), "waiter@company.com", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, do(h, "/api/staff-only").Code)
}
