package rbac

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Middleware wires catalog authorization checks for HTTP handlers. The current
// principal's AuthKey is resolved as a catalog role on every request.
type Middleware struct {
	Catalog *Catalog
	Logger  *slog.Logger
}

// RequireAny ensures the current principal holds at least one of perms.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	required := normalizePermissions(perms)
	return m.guard(func(role string) bool {
		for _, p := range required {
			if m.Catalog.HasPermission(role, p) {
				return true
			}
		}
		return len(required) == 0
	}, strings.Join(required, "|"))
}

// RequireAll ensures the current principal holds every one of perms.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	required := normalizePermissions(perms)
	return m.guard(func(role string) bool {
		for _, p := range required {
			if !m.Catalog.HasPermission(role, p) {
				return false
			}
		}
		return true
	}, strings.Join(required, "&"))
}

// RequireCapability ensures the principal's role carries the capability flag.
func (m Middleware) RequireCapability(c Capability) func(http.Handler) http.Handler {
	return m.guard(func(role string) bool {
		return m.Catalog.Has(role, c)
	}, string(c))
}

func (m Middleware) guard(allowed func(role string) bool, label string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := session.CurrentPrincipal(r.Context())
			if p == nil {
				httpx.RespondError(w, fmt.Errorf("%w: login required", httpx.ErrUnauthorized))
				return
			}
			if !allowed(p.AuthKey()) {
				if m.Logger != nil {
					m.Logger.Debug("rbac denied",
						slog.String("role", p.AuthKey()),
						slog.String("requires", label),
						slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, fmt.Errorf("%w: insufficient permissions", httpx.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
