package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Manager binds browser cookies to Redis-backed principal stores.
type Manager struct {
	client     *redis.Client
	directory  Directory
	logger     *slog.Logger
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager constructs a Manager.
func NewManager(client *redis.Client, directory Directory, cookieName string, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:     client,
		directory:  directory,
		logger:     logger,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Open returns the restored store for a browser session id.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Store, error) {
	store := NewStore(NewRedisStorage(m.client, sessionID, m.ttl), m.directory, m.logger)
	if err := store.Restore(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Middleware restores the session store for every request and places it in
// the request context. A session cookie is issued when the browser has none.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.sessionID(r)
		if id == "" {
			id = uuid.NewString()
		}
		store, err := m.Open(r.Context(), id)
		if err != nil {
			m.logger.Error("session restore", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(m.ttl),
		})
		next.ServeHTTP(w, r.WithContext(ContextWithStore(r.Context(), store)))
	})
}

// Expire drops the session cookie.
func (m *Manager) Expire(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}
