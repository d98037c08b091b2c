package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
	"github.com/tillpoint/tillpoint/internal/session"
)

var table = db.Table[User]{
	Name:        "users",
	Columns:     []string{"name", "email", "kind", "role", "company_id", "password_hash", "status"},
	Search:      []string{"name", "email", "role"},
	Sorts:       map[string]string{"name": "name", "email": "email", "kind": "kind", "created_at": "created_at"},
	DefaultSort: "email",
	Scan: func(row db.Scanner) (User, error) {
		var u User
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Kind, &u.Role, &u.CompanyID, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
		return u, err
	},
	Values: func(u User) []any {
		return []any{u.Name, u.Email, string(u.Kind), u.Role, u.CompanyID, u.PasswordHash, u.Status}
	},
}

// Repository persists accounts and resolves them for login.
type Repository interface {
	crud.Repository[User]
	FindByEmail(ctx context.Context, kind session.Kind, email string) (User, error)
}

// PgRepository is the Postgres Repository.
type PgRepository struct {
	*crud.PgRepository[User]
	conn db.DBTX
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *PgRepository {
	return &PgRepository{PgRepository: crud.NewPgRepository(conn, table), conn: conn}
}

// FindByEmail returns the account of kind registered under email.
func (r *PgRepository) FindByEmail(ctx context.Context, kind session.Kind, email string) (User, error) {
	query := "SELECT id, name, email, kind, role, company_id, password_hash, status, created_at, updated_at " +
		"FROM users WHERE kind = $1 AND lower(email) = $2"
	u, err := table.Scan(r.conn.QueryRow(ctx, query, string(kind), session.NormalizeEmail(email)))
	if err != nil {
		return User{}, db.MapError(err)
	}
	return u, nil
}

// MemoryRepository is the in-process Repository.
type MemoryRepository struct {
	*crud.MemoryRepository[User]
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{MemoryRepository: crud.NewMemoryRepository(crud.MemoryOptions[User]{
		Stamp: func(u User, id int64, created, now time.Time) User {
			u.ID, u.CreatedAt, u.UpdatedAt = id, created, now
			return u
		},
		Status: func(u User) string { return u.Status },
		Match: func(u User, q string) bool {
			return strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(q))
		},
		Unique: func(u User) string { return string(u.Kind) + ":" + u.Email },
	})}
}

// FindByEmail implements Repository.
func (r *MemoryRepository) FindByEmail(ctx context.Context, kind session.Kind, email string) (User, error) {
	all, _, err := r.List(ctx, httpx.ListFilters{})
	if err != nil {
		return User{}, err
	}
	email = session.NormalizeEmail(email)
	for _, u := range all {
		if u.Kind == kind && u.Email == email {
			return u, nil
		}
	}
	return User{}, httpx.ErrNotFound
}

// Directory resolves stored accounts for session login.
type Directory struct {
	repo Repository
}

// NewDirectory returns a session.Directory over repo.
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// Lookup implements session.Directory.
func (d *Directory) Lookup(ctx context.Context, kind session.Kind, email string) (*session.Account, error) {
	u, err := d.repo.FindByEmail(ctx, kind, email)
	if errors.Is(err, httpx.ErrNotFound) {
		return nil, session.ErrNoAccount
	}
	if err != nil {
		return nil, err
	}
	acc := u.Account()
	return &acc, nil
}
