package companies

import (
	"context"
	"strings"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
)

var table = db.Table[Company]{
	Name:        "companies",
	Columns:     []string{"name", "email", "phone", "address", "status"},
	Search:      []string{"name", "email"},
	Sorts:       map[string]string{"name": "name", "created_at": "created_at"},
	DefaultSort: "name",
	Scan: func(row db.Scanner) (Company, error) {
		var c Company
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Status, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	},
	Values: func(c Company) []any {
		return []any{c.Name, c.Email, c.Phone, c.Address, c.Status}
	},
}

// Repository persists companies and supports lookup by name.
type Repository struct {
	*crud.PgRepository[Company]
	conn db.DBTX
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{PgRepository: crud.NewPgRepository(conn, table), conn: conn}
}

// FindByName returns the company called name, ignoring case.
func (r *Repository) FindByName(ctx context.Context, name string) (Company, error) {
	return table.GetBy(ctx, r.conn, "lower(name)", strings.ToLower(strings.TrimSpace(name)))
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[Company] {
	return crud.NewMemoryRepository(crud.MemoryOptions[Company]{
		Stamp: func(c Company, id int64, created, now time.Time) Company {
			c.ID, c.CreatedAt, c.UpdatedAt = id, created, now
			return c
		},
		Status: func(c Company) string { return c.Status },
		Match: func(c Company, q string) bool {
			return strings.Contains(strings.ToLower(c.Name), strings.ToLower(q))
		},
		Unique: func(c Company) string { return strings.ToLower(c.Name) },
	})
}
