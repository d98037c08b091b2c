package staff

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

var table = db.Table[Member]{
	Name:        "staff",
	Columns:     []string{"name", "email", "phone", "role_id", "hourly_rate", "status"},
	Search:      []string{"name", "email", "role_id"},
	Sorts:       map[string]string{"name": "name", "role_id": "role_id", "hourly_rate": "hourly_rate", "created_at": "created_at"},
	DefaultSort: "name",
	Scan: func(row db.Scanner) (Member, error) {
		var m Member
		err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.RoleID, &m.HourlyRate, &m.Status, &m.CreatedAt, &m.UpdatedAt)
		return m, err
	},
	Values: func(m Member) []any {
		return []any{m.Name, m.Email, m.Phone, m.RoleID, m.HourlyRate, m.Status}
	},
}

// Repository persists staff records.
type Repository interface {
	crud.Repository[Member]
	FindByEmail(ctx context.Context, email string) (Member, error)
}

// CheckinStore persists check-ins.
type CheckinStore interface {
	RecordCheckin(ctx context.Context, email, note string) (Checkin, error)
	RecentCheckins(ctx context.Context, email string, limit int) ([]Checkin, error)
}

// PgRepository is the Postgres Repository and CheckinStore.
type PgRepository struct {
	*crud.PgRepository[Member]
	conn db.DBTX
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *PgRepository {
	return &PgRepository{PgRepository: crud.NewPgRepository(conn, table), conn: conn}
}

// FindByEmail returns the staff record for email.
func (r *PgRepository) FindByEmail(ctx context.Context, email string) (Member, error) {
	return table.GetBy(ctx, r.conn, "lower(email)", strings.ToLower(strings.TrimSpace(email)))
}

// RecordCheckin implements CheckinStore.
func (r *PgRepository) RecordCheckin(ctx context.Context, email, note string) (Checkin, error) {
	c := Checkin{StaffEmail: email, Note: note}
	err := r.conn.QueryRow(ctx,
		`INSERT INTO staff_checkins (staff_email, note) VALUES ($1, $2) RETURNING id, checked_in_at`,
		email, note).Scan(&c.ID, &c.CheckedInAt)
	if err != nil {
		return Checkin{}, fmt.Errorf("record checkin: %w", db.MapError(err))
	}
	return c, nil
}

// RecentCheckins implements CheckinStore.
func (r *PgRepository) RecentCheckins(ctx context.Context, email string, limit int) ([]Checkin, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT id, staff_email, checked_in_at, note FROM staff_checkins WHERE staff_email = $1 ORDER BY checked_in_at DESC LIMIT $2`,
		email, limit)
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	defer rows.Close()
	out := make([]Checkin, 0, limit)
	for rows.Next() {
		var c Checkin
		if err := rows.Scan(&c.ID, &c.StaffEmail, &c.CheckedInAt, &c.Note); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MemoryRepository is the in-process Repository and CheckinStore.
type MemoryRepository struct {
	*crud.MemoryRepository[Member]
	mu       sync.Mutex
	checkins []Checkin
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{MemoryRepository: crud.NewMemoryRepository(crud.MemoryOptions[Member]{
		Stamp: func(m Member, id int64, created, now time.Time) Member {
			m.ID, m.CreatedAt, m.UpdatedAt = id, created, now
			return m
		},
		Status: func(m Member) string { return m.Status },
		Match: func(m Member, q string) bool {
			return strings.Contains(strings.ToLower(m.Name+" "+m.Email), strings.ToLower(q))
		},
		Unique: func(m Member) string { return m.Email },
	})}
}

// FindByEmail implements Repository.
func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (Member, error) {
	items, _, err := r.List(ctx, httpx.ListFilters{})
	if err != nil {
		return Member{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, m := range items {
		if m.Email == email {
			return m, nil
		}
	}
	return Member{}, httpx.ErrNotFound
}

// RecordCheckin implements CheckinStore.
func (r *MemoryRepository) RecordCheckin(_ context.Context, email, note string) (Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := Checkin{ID: int64(len(r.checkins) + 1), StaffEmail: email, Note: note, CheckedInAt: time.Now().UTC()}
	r.checkins = append(r.checkins, c)
	return c, nil
}

// RecentCheckins implements CheckinStore.
func (r *MemoryRepository) RecentCheckins(_ context.Context, email string, limit int) ([]Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Checkin, 0, limit)
	for i := len(r.checkins) - 1; i >= 0 && len(out) < limit; i-- {
		if r.checkins[i].StaffEmail == email {
			out = append(out, r.checkins[i])
		}
	}
	return out, nil
}
