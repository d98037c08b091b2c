package restaurant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/restaurant"
	"github.com/tillpoint/tillpoint/internal/session"
)

const catalogYAML = `
permissions:
  - {key: restaurant.view, label: View tables}
  - {key: restaurant.manage, label: Manage tables}
roles:
  - id: host
    name: Host
    permissions: [restaurant.view, restaurant.manage]
  - id: floor_lead
    name: Floor lead
    permissions: [restaurant.view, restaurant.manage]
    can_manage_restaurant: true
`

const rosterYAML = `
staff:
  - {id: s1, name: Hana Host, email: host@diner.io, role: host}
  - {id: s2, name: Lee Lead, email: lead@diner.io, role: floor_lead}
`

func router(t *testing.T, email string) http.Handler {
	t.Helper()
	catalog, err := rbac.Load([]byte(catalogYAML))
	require.NoError(t, err)
	dir, err := session.NewStaticDirectory([]byte(rosterYAML))
	require.NoError(t, err)
	store := session.NewStore(session.NewMemoryStorage(), dir, nil)
	ok, err := store.Login(context.Background(), email, "x")
	require.NoError(t, err)
	require.True(t, ok)

	m := restaurant.New(restaurant.NewMemoryRepository(), crud.Deps{RBAC: rbac.Middleware{Catalog: catalog}})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWithStore(req.Context(), store)))
		})
	})
	r.Route("/api/restaurant/tables", m.MountRoutes)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWritesNeedRestaurantCapability(t *testing.T) {
	host := router(t, "host@diner.io")
	assert.Equal(t, http.StatusOK, do(host, http.MethodGet, "/api/restaurant/tables/", "").Code)
	assert.Equal(t, http.StatusForbidden, do(host, http.MethodPost, "/api/restaurant/tables/", `{"label":"t1","seats":4}`).Code)

	lead := router(t, "lead@diner.io")
	rec := do(lead, http.MethodPost, "/api/restaurant/tables/", `{"label":"t1","seats":4,"area":"Patio"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"label":"T1"`)
	assert.Contains(t, rec.Body.String(), `"status":"available"`)
}

func TestTableValidation(t *testing.T) {
	m := restaurant.New(restaurant.NewMemoryRepository(), crud.Deps{})
	ctx := context.Background()

	_, err := m.Service.Create(ctx, restaurant.Input{Label: "A1", Seats: 0}, "")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = m.Service.Create(ctx, restaurant.Input{Label: "a1", Seats: 2}, "")
	require.NoError(t, err)
	_, err = m.Service.Create(ctx, restaurant.Input{Label: "A1", Seats: 6}, "")
	assert.ErrorIs(t, err, httpx.ErrConflict)
}
