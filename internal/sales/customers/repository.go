package customers

import (
	"strings"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
)

var table = db.Table[Customer]{
	Name:        "customers",
	Columns:     []string{"name", "email", "phone", "address", "loyalty_points", "status"},
	Search:      []string{"name", "email", "phone"},
	Sorts:       map[string]string{"name": "name", "loyalty_points": "loyalty_points", "created_at": "created_at"},
	DefaultSort: "name",
	Scan: func(row db.Scanner) (Customer, error) {
		var c Customer
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.LoyaltyPoints, &c.Status, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	},
	Values: func(c Customer) []any {
		return []any{c.Name, c.Email, c.Phone, c.Address, c.LoyaltyPoints, c.Status}
	},
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *crud.PgRepository[Customer] {
	return crud.NewPgRepository(conn, table)
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[Customer] {
	return crud.NewMemoryRepository(crud.MemoryOptions[Customer]{
		Stamp: func(c Customer, id int64, created, now time.Time) Customer {
			c.ID, c.CreatedAt, c.UpdatedAt = id, created, now
			return c
		},
		Status: func(c Customer) string { return c.Status },
		Match: func(c Customer, q string) bool {
			return strings.Contains(strings.ToLower(c.Name), strings.ToLower(q))
		},
		Unique: func(c Customer) string {
			if c.Email == nil {
				return ""
			}
			return *c.Email
		},
	})
}
