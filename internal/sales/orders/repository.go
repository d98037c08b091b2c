package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
)

var table = db.Table[Sale]{
	Name:        "sales",
	Columns:     []string{"receipt_number", "customer_id", "payment_method_id", "items", "subtotal", "tax", "total", "status"},
	Search:      []string{"receipt_number"},
	Sorts:       map[string]string{"receipt_number": "receipt_number", "total": "total", "created_at": "created_at"},
	DefaultSort: "created_at",
	Scan: func(row db.Scanner) (Sale, error) {
		var (
			s   Sale
			raw []byte
		)
		if err := row.Scan(&s.ID, &s.ReceiptNumber, &s.CustomerID, &s.PaymentMethodID, &raw,
			&s.Subtotal, &s.Tax, &s.Total, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return s, err
		}
		if err := json.Unmarshal(raw, &s.Items); err != nil {
			return s, fmt.Errorf("decode sale items: %w", err)
		}
		return s, nil
	},
	Values: func(s Sale) []any {
		items, _ := json.Marshal(s.Items)
		return []any{s.ReceiptNumber, s.CustomerID, s.PaymentMethodID, items, s.Subtotal, s.Tax, s.Total, s.Status}
	},
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *crud.PgRepository[Sale] {
	return crud.NewPgRepository(conn, table)
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[Sale] {
	return crud.NewMemoryRepository(crud.MemoryOptions[Sale]{
		Stamp: func(s Sale, id int64, created, now time.Time) Sale {
			s.ID, s.CreatedAt, s.UpdatedAt = id, created, now
			return s
		},
		Status: func(s Sale) string { return s.Status },
		Unique: func(s Sale) string { return s.ReceiptNumber },
	})
}
