package guard

import (
	"net/http"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Pages guards browser routes, redirecting with 303 See Other. The decision is
// recomputed from the live session on every request.
func Pages(allowed ...session.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Evaluate(session.CurrentPrincipal(r.Context()), allowed...)
			if d.State != Authorized {
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// API guards JSON routes. Unauthenticated requests get 401, wrong kinds get
// 403; both envelopes carry the redirect target in details.
func API(allowed ...session.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Evaluate(session.CurrentPrincipal(r.Context()), allowed...)
			switch d.State {
			case Unauthenticated:
				deny(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "login required", d.Redirect)
			case WrongKind:
				deny(w, http.StatusForbidden, httpx.CodeForbidden, "not available for this account type", d.Redirect)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func deny(w http.ResponseWriter, status int, code, msg, redirect string) {
	httpx.JSON(w, status, httpx.Envelope{
		Success: false,
		Error:   msg,
		Code:    code,
		Details: map[string]string{"redirect": redirect},
	})
}
