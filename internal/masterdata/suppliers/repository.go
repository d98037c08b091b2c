package suppliers

import (
	"strings"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
)

var table = db.Table[Supplier]{
	Name:        "suppliers",
	Columns:     []string{"code", "name", "contact_name", "email", "phone", "address", "status"},
	Search:      []string{"code", "name", "contact_name", "email"},
	Sorts:       map[string]string{"code": "code", "name": "name", "created_at": "created_at"},
	DefaultSort: "name",
	Scan: func(row db.Scanner) (Supplier, error) {
		var s Supplier
		err := row.Scan(&s.ID, &s.Code, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	},
	Values: func(s Supplier) []any {
		return []any{s.Code, s.Name, s.ContactName, s.Email, s.Phone, s.Address, s.Status}
	},
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *crud.PgRepository[Supplier] {
	return crud.NewPgRepository(conn, table)
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[Supplier] {
	return crud.NewMemoryRepository(crud.MemoryOptions[Supplier]{
		Stamp: func(s Supplier, id int64, created, now time.Time) Supplier {
			s.ID, s.CreatedAt, s.UpdatedAt = id, created, now
			return s
		},
		Status: func(s Supplier) string { return s.Status },
		Match: func(s Supplier, q string) bool {
			q = strings.ToLower(q)
			return strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Code), q)
		},
		Unique: func(s Supplier) string { return s.Code },
	})
}
