package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
	"github.com/tillpoint/tillpoint/internal/shared"
)

// Hook adjusts or rejects a record before it is written. existing is nil on
// create.
type Hook[T any] func(ctx context.Context, rec T, existing *T) (T, error)

// Options configure a Service.
type Options[T any] struct {
	// Module names the resource in audit logs, idempotency keys and cache
	// namespaces.
	Module      string
	Audit       Auditor
	Idempotency Idempotency
	Cache       StatsCache
	Logger      *slog.Logger
	BeforeWrite Hook[T]
}

// Service applies validation, auditing and cache invalidation around a
// Repository. Validation failures never reach the repository.
type Service[T Entity, I Input[T]] struct {
	repo   Repository[T]
	opts   Options[T]
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService[T Entity, I Input[T]](repo Repository[T], opts Options[T]) *Service[T, I] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service[T, I]{repo: repo, opts: opts, logger: logger.With(slog.String("module", opts.Module))}
}

// Module returns the resource name.
func (s *Service[T, I]) Module() string {
	return s.opts.Module
}

// List returns a page of records.
func (s *Service[T, I]) List(ctx context.Context, filters httpx.ListFilters) (httpx.Page[T], error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return httpx.Page[T]{}, err
	}
	return httpx.Page[T]{Items: items, Total: total, Page: filters.Page, Limit: filters.Limit}, nil
}

// Get returns one record.
func (s *Service[T, I]) Get(ctx context.Context, id int64) (T, error) {
	return s.repo.Get(ctx, id)
}

// Create validates in and stores the resulting record. A non-empty
// idempotencyKey is claimed first; reusing it yields ErrConflict.
func (s *Service[T, I]) Create(ctx context.Context, in I, idempotencyKey string) (T, error) {
	var zero T
	rec, err := s.decode(in)
	if err != nil {
		return zero, err
	}
	if rec, err = s.hook(ctx, rec, nil); err != nil {
		return zero, err
	}
	if idempotencyKey != "" && s.opts.Idempotency != nil {
		if err := s.opts.Idempotency.CheckAndInsert(ctx, idempotencyKey, s.opts.Module); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return zero, fmt.Errorf("%w: %v", httpx.ErrConflict, err)
			}
			return zero, err
		}
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		if idempotencyKey != "" && s.opts.Idempotency != nil {
			if derr := s.opts.Idempotency.Delete(ctx, idempotencyKey, s.opts.Module); derr != nil {
				s.logger.Warn("release idempotency key", slog.Any("error", derr))
			}
		}
		return zero, err
	}
	s.afterWrite(ctx, "create", created.EntityID())
	return created, nil
}

// Update validates in and replaces the record with id.
func (s *Service[T, I]) Update(ctx context.Context, id int64, in I) (T, error) {
	var zero T
	rec, err := s.decode(in)
	if err != nil {
		return zero, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if rec, err = s.hook(ctx, rec, &existing); err != nil {
		return zero, err
	}
	updated, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		return zero, err
	}
	s.afterWrite(ctx, "update", id)
	return updated, nil
}

// Delete removes the record with id. Deleting twice yields ErrNotFound.
func (s *Service[T, I]) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, "delete", id)
	return nil
}

// Stats counts records by status, served from cache until the next write.
func (s *Service[T, I]) Stats(ctx context.Context) (Stats, error) {
	load := func(ctx context.Context) (any, error) {
		byStatus, total, err := s.repo.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		return Stats{Total: total, ByStatus: byStatus}, nil
	}
	var stats Stats
	if s.opts.Cache == nil {
		v, err := load(ctx)
		if err != nil {
			return Stats{}, err
		}
		return v.(Stats), nil
	}
	if err := s.opts.Cache.FetchJSON(ctx, s.namespace(), "stats", &stats, load); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Invalidate drops cached stats after writes made outside the Service.
func (s *Service[T, I]) Invalidate(ctx context.Context) {
	if s.opts.Cache == nil {
		return
	}
	if err := s.opts.Cache.Bump(ctx, s.namespace()); err != nil {
		s.logger.Warn("invalidate stats cache", slog.Any("error", err))
	}
}

// Record writes an audit entry for a mutation performed by the caller.
func (s *Service[T, I]) Record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.opts.Audit == nil {
		return
	}
	err := s.opts.Audit.Record(ctx, shared.AuditLog{
		Actor:    Actor(ctx),
		Action:   s.opts.Module + "." + action,
		Entity:   s.opts.Module,
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *Service[T, I]) afterWrite(ctx context.Context, action string, id int64) {
	s.Record(ctx, action, id, nil)
	s.Invalidate(ctx)
}

func (s *Service[T, I]) decode(in I) (T, error) {
	if n, ok := any(in).(Normalizer[I]); ok {
		in = n.Normalize()
	}
	if err := httpx.Validate(in); err != nil {
		var zero T
		return zero, err
	}
	return in.Record()
}

func (s *Service[T, I]) hook(ctx context.Context, rec T, existing *T) (T, error) {
	if s.opts.BeforeWrite == nil {
		return rec, nil
	}
	return s.opts.BeforeWrite(ctx, rec, existing)
}

func (s *Service[T, I]) namespace() string {
	return StatsNamespace(s.opts.Module)
}

// Actor names the principal in ctx for audit records.
func Actor(ctx context.Context) string {
	if p := session.CurrentPrincipal(ctx); p != nil {
		return p.Identity().Email
	}
	return "system"
}

// StatsNamespace is the cache namespace holding module's stats.
func StatsNamespace(module string) string {
	return "stats:" + module
}
