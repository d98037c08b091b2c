package admin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/admin"
	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/session"
	"github.com/tillpoint/tillpoint/internal/shared"
)

type fakeMigrator struct {
	applied []db.MigrationStatus
	pending []db.MigrationStatus
	fail    error
}

func (f *fakeMigrator) Run(context.Context) ([]db.MigrationStatus, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	now := time.Now().UTC()
	out := f.pending
	for i := range out {
		out[i].Applied, out[i].AppliedAt = true, &now
	}
	f.applied = append(f.applied, out...)
	f.pending = nil
	return out, nil
}

func (f *fakeMigrator) Revert(context.Context) (*db.MigrationStatus, error) {
	if len(f.applied) == 0 {
		return nil, nil
	}
	last := f.applied[len(f.applied)-1]
	f.applied = f.applied[:len(f.applied)-1]
	last.Applied, last.AppliedAt = false, nil
	f.pending = append([]db.MigrationStatus{last}, f.pending...)
	return &last, nil
}

func (f *fakeMigrator) Status(context.Context) ([]db.MigrationStatus, error) {
	return append(append([]db.MigrationStatus{}, f.applied...), f.pending...), nil
}

type auditLog struct {
	mu   sync.Mutex
	logs []shared.AuditLog
}

func (a *auditLog) Record(_ context.Context, l shared.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, l)
	return nil
}

func serve(t *testing.T, m admin.Migrator, audit *auditLog, email, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	catalog, err := rbac.Default()
	require.NoError(t, err)
	dir, err := session.DemoDirectory()
	require.NoError(t, err)
	store := session.NewStore(session.NewMemoryStorage(), dir, nil)
	if email != "" {
		ok, err := store.Login(context.Background(), email, "pw")
		require.NoError(t, err)
		require.True(t, ok)
	}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWithStore(req.Context(), store)))
		})
	})
	var auditor crud.Auditor
	if audit != nil {
		auditor = audit
	}
	r.Route("/api/admin/migrations", admin.NewHandler(nil, m, auditor, rbac.Middleware{Catalog: catalog}).MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestMigrationsRequireProvider(t *testing.T) {
	m := &fakeMigrator{}
	assert.Equal(t, http.StatusUnauthorized, serve(t, m, nil, "", http.MethodGet, "/api/admin/migrations/").Code)
	assert.Equal(t, http.StatusForbidden, serve(t, m, nil, "owner@company.com", http.MethodGet, "/api/admin/migrations/").Code)
	assert.Equal(t, http.StatusForbidden, serve(t, m, nil, "admin@company.com", http.MethodPost, "/api/admin/migrations/run").Code)
}

func TestRunAndRevert(t *testing.T) {
	m := &fakeMigrator{pending: []db.MigrationStatus{{Version: 1, Name: "accounts"}, {Version: 2, Name: "operations"}}}
	audit := &auditLog{}
	const provider = "provider@tillpoint.dev"

	rec := serve(t, m, audit, provider, http.MethodPost, "/api/admin/migrations/run")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"operations"`)
	require.Len(t, audit.logs, 2)
	assert.Equal(t, "migrations.run", audit.logs[0].Action)
	assert.Equal(t, provider, audit.logs[0].Actor)

	rec = serve(t, m, audit, provider, http.MethodPost, "/api/admin/migrations/revert")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":2`)

	rec = serve(t, m, audit, provider, http.MethodGet, "/api/admin/migrations/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"applied":false`)

	rec = serve(t, m, audit, provider, http.MethodPost, "/api/admin/migrations/run")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRunFailureIsInternal(t *testing.T) {
	m := &fakeMigrator{fail: errors.New("relation already exists")}
	rec := serve(t, m, nil, "provider@tillpoint.dev", http.MethodPost, "/api/admin/migrations/run")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "relation")
}
