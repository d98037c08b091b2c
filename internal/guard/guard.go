// Package guard decides whether the current principal may reach a route.
package guard

import (
	"slices"

	"github.com/tillpoint/tillpoint/internal/session"
)

// State is the outcome of evaluating a route against the session.
type State int

const (
	Unauthenticated State = iota
	WrongKind
	Authorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case WrongKind:
		return "wrong_kind"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Decision carries the state and, unless authorized, where to go instead.
type Decision struct {
	State    State  `json:"-"`
	Redirect string `json:"redirect,omitempty"`
}

// Landing returns the default page for a principal kind.
func Landing(k session.Kind) string {
	switch k {
	case session.KindOwner:
		return "/owner"
	case session.KindProvider:
		return "/provider"
	case session.KindStaff:
		return "/checkin"
	case session.KindRegular:
		return "/dashboard"
	default:
		return LoginPath
	}
}

// Evaluate applies the guard to principal p. An empty allowed set admits every
// kind. The redirect for a mismatched kind depends only on the current kind.
func Evaluate(p session.Principal, allowed ...session.Kind) Decision {
	if p == nil {
		return Decision{State: Unauthenticated, Redirect: LoginPath}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, p.Kind()) {
		return Decision{State: WrongKind, Redirect: Landing(p.Kind())}
	}
	return Decision{State: Authorized}
}
