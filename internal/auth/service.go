package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tillpoint/tillpoint/internal/guard"
	"github.com/tillpoint/tillpoint/internal/shared"
	"github.com/tillpoint/tillpoint/internal/session"
)

// Auditor records authentication events.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// LoginObserver counts login outcomes.
type LoginObserver interface {
	ObserveLogin(ok bool)
}

// Service performs login and logout against a request's session store.
type Service struct {
	audit    Auditor
	logger   *slog.Logger
	observer LoginObserver
}

// NewService constructs a Service. audit may be nil.
func NewService(audit Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{audit: audit, logger: logger}
}

// WithObserver reports login outcomes to o.
func (s *Service) WithObserver(o LoginObserver) *Service {
	s.observer = o
	return s
}

// Login authenticates into store.
func (s *Service) Login(ctx context.Context, store *session.Store, email, password string) (LoginResult, error) {
	if store == nil {
		return LoginResult{}, errors.New("auth: no session in context")
	}
	ok, err := store.Login(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}
	if s.observer != nil {
		s.observer.ObserveLogin(ok)
	}
	if !ok {
		s.logger.Info("login rejected", slog.String("email", session.NormalizeEmail(email)))
		return LoginResult{}, ErrInvalidCredentials
	}
	p := store.Current()
	s.record(ctx, p, "auth.login")
	return LoginResult{Principal: session.Describe(p), Redirect: guard.Landing(p.Kind())}, nil
}

// Logout clears store. It succeeds when nobody is logged in.
func (s *Service) Logout(ctx context.Context, store *session.Store) error {
	if store == nil {
		return nil
	}
	if p := store.Current(); p != nil {
		s.record(ctx, p, "auth.logout")
	}
	return store.Logout(ctx)
}

func (s *Service) record(ctx context.Context, p session.Principal, action string) {
	if s.audit == nil {
		return
	}
	id := p.Identity()
	err := s.audit.Record(ctx, shared.AuditLog{
		Actor:    id.Email,
		Action:   action,
		Entity:   "principal",
		EntityID: id.ID,
		Meta:     map[string]any{"kind": string(p.Kind())},
	})
	if err != nil {
		s.logger.Warn("audit auth event", slog.String("action", action), slog.Any("error", err))
	}
}
