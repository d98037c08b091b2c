package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Store holds at most one principal for a browser session and mirrors it into
// Storage under a kind-specific key.
type Store struct {
	storage   Storage
	directory Directory
	logger    *slog.Logger
	principal Principal
}

// NewStore builds an empty store. Call Restore to rehydrate from storage.
func NewStore(storage Storage, directory Directory, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, directory: directory, logger: logger}
}

// Current returns the active principal or nil.
func (s *Store) Current() Principal {
	if s == nil {
		return nil
	}
	return s.principal
}

// Kind returns the active principal kind.
func (s *Store) Kind() (Kind, bool) {
	p := s.Current()
	if p == nil {
		return "", false
	}
	return p.Kind(), true
}

// Login resolves email across kinds in Priority order and activates the first
// match. It reports false, leaving the store untouched, when no kind knows the
// email, the account is disabled, or the password does not match its hash.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	for _, kind := range Priority {
		acc, err := s.directory.Lookup(ctx, kind, email)
		if errors.Is(err, ErrNoAccount) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("lookup %s account: %w", kind, err)
		}
		if acc.Disabled || !passwordMatches(acc.PasswordHash, password) {
			return false, nil
		}
		if err := s.activate(ctx, acc.Principal()); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func passwordMatches(hash, password string) bool {
	if hash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *Store) activate(ctx context.Context, p Principal) error {
	data, err := encode(p)
	if err != nil {
		return fmt.Errorf("encode principal: %w", err)
	}
	if err := s.storage.Set(ctx, storageKey(p.Kind()), data); err != nil {
		return fmt.Errorf("persist principal: %w", err)
	}
	for _, kind := range Priority {
		if kind == p.Kind() {
			continue
		}
		if err := s.storage.Delete(ctx, storageKey(kind)); err != nil {
			return fmt.Errorf("clear %s principal: %w", kind, err)
		}
	}
	s.principal = p
	return nil
}

// Logout clears the principal and every stored key. Calling it on an empty
// store is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.principal = nil
	var errs []error
	for _, kind := range Priority {
		if err := s.storage.Delete(ctx, storageKey(kind)); err != nil {
			errs = append(errs, fmt.Errorf("clear %s principal: %w", kind, err))
		}
	}
	return errors.Join(errs...)
}

// Restore loads the first stored principal in Priority order. Values that
// fail to decode are removed and skipped.
func (s *Store) Restore(ctx context.Context) error {
	s.principal = nil
	for _, kind := range Priority {
		data, err := s.storage.Get(ctx, storageKey(kind))
		if errors.Is(err, ErrNotStored) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load %s principal: %w", kind, err)
		}
		p, err := decode(kind, data)
		if err != nil {
			s.logger.Warn("discarding stored principal", slog.String("kind", string(kind)), slog.Any("error", err))
			if err := s.storage.Delete(ctx, storageKey(kind)); err != nil {
				return fmt.Errorf("clear %s principal: %w", kind, err)
			}
			continue
		}
		s.principal = p
		return nil
	}
	return nil
}
