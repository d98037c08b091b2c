package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/app"
	"github.com/tillpoint/tillpoint/internal/auth"
	"github.com/tillpoint/tillpoint/internal/billing/paymentmethods"
	"github.com/tillpoint/tillpoint/internal/billing/subscriptions"
	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/inventory"
	"github.com/tillpoint/tillpoint/internal/masterdata/companies"
	"github.com/tillpoint/tillpoint/internal/masterdata/suppliers"
	"github.com/tillpoint/tillpoint/internal/observability"
	"github.com/tillpoint/tillpoint/internal/platform/cache"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/procurement"
	"github.com/tillpoint/tillpoint/internal/rbac"
	"github.com/tillpoint/tillpoint/internal/restaurant"
	"github.com/tillpoint/tillpoint/internal/sales/customers"
	"github.com/tillpoint/tillpoint/internal/sales/orders"
	"github.com/tillpoint/tillpoint/internal/session"
	"github.com/tillpoint/tillpoint/internal/staff"
	"github.com/tillpoint/tillpoint/internal/users"
	"github.com/tillpoint/tillpoint/jobs"
	_ "github.com/tillpoint/tillpoint/testing"
)

type companyStore struct {
	*crud.MemoryRepository[companies.Company]
}

func (s companyStore) FindByName(ctx context.Context, name string) (companies.Company, error) {
	all, _, err := s.List(ctx, httpx.ListFilters{})
	if err != nil {
		return companies.Company{}, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return companies.Company{}, httpx.ErrNotFound
}

func memoryStores() app.Stores {
	return app.Stores{
		Suppliers:      suppliers.NewMemoryRepository(),
		Companies:      companyStore{companies.NewMemoryRepository()},
		Inventory:      inventory.NewMemoryRepository(),
		Customers:      customers.NewMemoryRepository(),
		Sales:          orders.NewMemoryRepository(),
		PurchaseOrders: procurement.NewMemoryRepository(),
		Staff:          staff.NewMemoryRepository(),
		Users:          users.NewMemoryRepository(),
		Subscriptions:  subscriptions.NewMemoryRepository(),
		PaymentMethods: paymentmethods.NewMemoryRepository(),
		Tables:         restaurant.NewMemoryRepository(),
	}
}

type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "tillpoint_session" {
			c.cookie = ck
		}
	}
	return rec
}

func newClient(t *testing.T) *client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	catalog, err := rbac.Default()
	require.NoError(t, err)
	demo, err := session.DemoDirectory()
	require.NoError(t, err)
	stores := memoryStores()
	mw := rbac.Middleware{Catalog: catalog}
	metrics := observability.NewMetrics()
	deps := crud.Deps{Cache: cache.NewJSONCache(rdb, 0), RBAC: mw}
	modules := app.NewModules(stores, catalog, deps)

	cfg := &app.Config{AppEnv: "test", RateLimitPerMinute: 10000, MetricsEnabled: true}
	sessions := session.NewManager(rdb, session.Chain{users.NewDirectory(stores.Users), demo}, "tillpoint_session", time.Hour, false, nil)
	h := app.NewRouter(app.RouterParams{
		Config:      cfg,
		Sessions:    sessions,
		Metrics:     metrics,
		Portal:      guard.NewPortal(nil, catalog),
		AuthHandler: auth.NewHandler(nil, auth.NewService(nil, nil).WithObserver(metrics), catalog).WithCookies(sessions),
		RBACHandler: rbac.NewHandler(nil, catalog, mw),
		Resources:   modules.Resources(),
		JobHandler:  jobs.NewHandler(nil, nil),
	})
	return &client{t: t, h: h}
}

func TestAnonymousRequests(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/api/inventory/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)

	rec = c.do(http.MethodGet, "/owner", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/no/such/route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), httpx.CodeNotFound)

	rec = c.do(http.MethodGet, "/jobs/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCashierSession(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodPost, "/api/auth/login", `{"email":"cashier@company.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"redirect":"/checkin"`)
	require.NotNil(t, c.cookie)

	rec = c.do(http.MethodPost, "/api/sales/", `{"items":[{"description":"Latte","quantity":2,"unit_price":3.5}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/sales/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = c.do(http.MethodPost, "/api/suppliers/", `{"code":"S1","name":"Beans Co"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodGet, "/owner", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/checkin", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/checkin", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	last := cookies[len(cookies)-1]
	assert.Equal(t, "tillpoint_session", last.Name)
	assert.Negative(t, last.MaxAge)
	rec = c.do(http.MethodGet, "/api/sales/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDatabaseAccountsLogIn(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodPost, "/api/auth/login", `{"email":"provider@tillpoint.dev","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPost, "/api/users/", `{"name":"Nia","email":"nia@shop.io","kind":"regular","password":"nia-secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	c.do(http.MethodPost, "/api/auth/logout", "")

	rec = c.do(http.MethodPost, "/api/auth/login", `{"email":"nia@shop.io","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = c.do(http.MethodPost, "/api/auth/login", `{"email":"nia@shop.io","password":"nia-secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/dashboard"`)

	rec = c.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tillpoint_logins_total{outcome="error"} 1`)
}
