package crud

import (
	"log/slog"

	"github.com/tillpoint/tillpoint/internal/rbac"
)

// Deps bundles the collaborators every resource module needs.
type Deps struct {
	Logger      *slog.Logger
	Audit       Auditor
	Idempotency Idempotency
	Cache       StatsCache
	RBAC        rbac.Middleware
}

// OptionsFor derives service options for module from d.
func OptionsFor[T any](d Deps, module string) Options[T] {
	return Options[T]{
		Module:      module,
		Audit:       d.Audit,
		Idempotency: d.Idempotency,
		Cache:       d.Cache,
		Logger:      d.Logger,
	}
}
