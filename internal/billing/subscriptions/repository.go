package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

var table = db.Table[Subscription]{
	Name:        "subscriptions",
	Columns:     []string{"company_id", "plan", "status", "amount", "starts_at", "ends_at"},
	Search:      []string{"plan"},
	Sorts:       map[string]string{"starts_at": "starts_at", "ends_at": "ends_at", "amount": "amount", "created_at": "created_at"},
	DefaultSort: "starts_at",
	Scan: func(row db.Scanner) (Subscription, error) {
		var s Subscription
		err := row.Scan(&s.ID, &s.CompanyID, &s.Plan, &s.Status, &s.Amount, &s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	},
	Values: func(s Subscription) []any {
		return []any{s.CompanyID, s.Plan, s.Status, s.Amount, s.StartsAt, s.EndsAt}
	},
}

// Repository persists subscriptions and expires lapsed ones.
type Repository interface {
	crud.Repository[Subscription]
	// ExpireDue marks live subscriptions that ended before now as expired and
	// returns their ids.
	ExpireDue(ctx context.Context, now time.Time) ([]int64, error)
}

// PgRepository is the Postgres Repository.
type PgRepository struct {
	*crud.PgRepository[Subscription]
	conn db.DBTX
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *PgRepository {
	return &PgRepository{PgRepository: crud.NewPgRepository(conn, table), conn: conn}
}

// ExpireDue implements Repository.
func (r *PgRepository) ExpireDue(ctx context.Context, now time.Time) ([]int64, error) {
	rows, err := r.conn.Query(ctx, `
		UPDATE subscriptions SET status = 'expired', updated_at = NOW()
		WHERE status IN ('trial', 'active', 'past_due') AND ends_at IS NOT NULL AND ends_at < $1
		RETURNING id`, now)
	if err != nil {
		return nil, fmt.Errorf("expire subscriptions: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MemoryRepository is the in-process Repository.
type MemoryRepository struct {
	*crud.MemoryRepository[Subscription]
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{MemoryRepository: crud.NewMemoryRepository(crud.MemoryOptions[Subscription]{
		Stamp: func(s Subscription, id int64, created, now time.Time) Subscription {
			s.ID, s.CreatedAt, s.UpdatedAt = id, created, now
			return s
		},
		Status: func(s Subscription) string { return s.Status },
		Match:  func(s Subscription, q string) bool { return s.Plan == q },
	})}
}

// ExpireDue implements Repository.
func (r *MemoryRepository) ExpireDue(ctx context.Context, now time.Time) ([]int64, error) {
	all, _, err := r.List(ctx, httpx.ListFilters{})
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, s := range all {
		if !s.Due(now) {
			continue
		}
		s.Status = StatusExpired
		if _, err := r.Update(ctx, s.ID, s); err != nil {
			return nil, err
		}
		ids = append(ids, s.ID)
	}
	return ids, nil
}
