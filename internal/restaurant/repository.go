package restaurant

import (
	"strings"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
)

var table = db.Table[Table]{
	Name:        "restaurant_tables",
	Columns:     []string{"label", "seats", "area", "status"},
	Search:      []string{"label", "area"},
	Sorts:       map[string]string{"label": "label", "seats": "seats", "area": "area", "created_at": "created_at"},
	DefaultSort: "label",
	Scan: func(row db.Scanner) (Table, error) {
		var t Table
		err := row.Scan(&t.ID, &t.Label, &t.Seats, &t.Area, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
	Values: func(t Table) []any {
		return []any{t.Label, t.Seats, t.Area, t.Status}
	},
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *crud.PgRepository[Table] {
	return crud.NewPgRepository(conn, table)
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[Table] {
	return crud.NewMemoryRepository(crud.MemoryOptions[Table]{
		Stamp: func(t Table, id int64, created, now time.Time) Table {
			t.ID, t.CreatedAt, t.UpdatedAt = id, created, now
			return t
		},
		Status: func(t Table) string { return t.Status },
		Match: func(t Table, q string) bool {
			q = strings.ToLower(q)
			return strings.Contains(strings.ToLower(t.Label), q) || strings.Contains(strings.ToLower(t.Area), q)
		},
		Unique: func(t Table) string { return t.Label },
	})
}
