package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	dir, err := DemoDirectory()
	require.NoError(t, err)
	return NewManager(client, dir, "tp_session", time.Hour, false, nil), mr
}

func TestManagerRoundTripsPrincipalThroughRedis(t *testing.T) {
	mgr, mr := newTestManager(t)

	login := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := FromContext(r.Context()).Login(r.Context(), "chef@company.com", "")
		require.NoError(t, err)
		require.True(t, ok)
	}))
	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	sid := cookies[0].Value
	assert.True(t, mr.Exists("session:"+sid+":principal:staff"))
	assert.Equal(t, time.Hour, mr.TTL("session:"+sid+":principal:staff"))

	var seen Principal
	probe := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentPrincipal(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	probe.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, "chef", seen.AuthKey())
}

func TestManagerIgnoresForgedCookie(t *testing.T) {
	mgr, _ := newTestManager(t)
	var store *Store
	h := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "tp_session", Value: "../../etc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, store)
	assert.Nil(t, store.Current())
	assert.NotEqual(t, "../../etc", rec.Result().Cookies()[0].Value)
}

func TestManagerFailsClosedWhenRedisIsDown(t *testing.T) {
	mgr, mr := newTestManager(t)
	mr.Close()
	called := false
	h := mgr.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCurrentPrincipalWithoutStore(t *testing.T) {
	assert.Nil(t, CurrentPrincipal(context.Background()))
}
