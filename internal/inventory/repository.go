package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/platform/db"
)

var table = db.Table[Item]{
	Name:        "inventory_items",
	Columns:     []string{"sku", "name", "category", "unit", "quantity", "reorder_level", "cost_price", "sell_price", "status"},
	Search:      []string{"sku", "name", "category"},
	Sorts:       map[string]string{"sku": "sku", "name": "name", "quantity": "quantity", "category": "category", "created_at": "created_at"},
	DefaultSort: "name",
	Scan: func(row db.Scanner) (Item, error) {
		var i Item
		err := row.Scan(&i.ID, &i.SKU, &i.Name, &i.Category, &i.Unit, &i.Quantity, &i.ReorderLevel,
			&i.CostPrice, &i.SellPrice, &i.Status, &i.CreatedAt, &i.UpdatedAt)
		return i, err
	},
	Values: func(i Item) []any {
		return []any{i.SKU, i.Name, i.Category, i.Unit, i.Quantity, i.ReorderLevel, i.CostPrice, i.SellPrice, i.Status}
	},
}

// Repository persists inventory items.
type Repository struct {
	*crud.PgRepository[Item]
	conn db.DBTX
}

// NewRepository returns the Postgres repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{PgRepository: crud.NewPgRepository(conn, table), conn: conn}
}

// Restock adds qty units to item id and recomputes its status. conn is
// normally the caller's transaction.
func Restock(ctx context.Context, conn db.DBTX, id int64, qty int) (Item, error) {
	var quantity, reorder int
	err := conn.QueryRow(ctx,
		`UPDATE inventory_items SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1 RETURNING quantity, reorder_level`,
		id, qty).Scan(&quantity, &reorder)
	if err != nil {
		return Item{}, fmt.Errorf("restock item %d: %w", id, db.MapError(err))
	}
	status := DeriveStatus(quantity, reorder)
	if _, err := conn.Exec(ctx, `UPDATE inventory_items SET status = $2 WHERE id = $1 AND status <> $2`, id, status); err != nil {
		return Item{}, fmt.Errorf("restock item %d: %w", id, db.MapError(err))
	}
	return table.Get(ctx, conn, id)
}

// LowStock lists items at or below their reorder level.
func (r *Repository) LowStock(ctx context.Context) ([]Item, error) {
	rows, err := r.conn.Query(ctx, "SELECT id, "+strings.Join(table.Columns, ", ")+
		", created_at, updated_at FROM inventory_items WHERE quantity <= reorder_level ORDER BY quantity, name")
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		item, err := table.Scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[Item] {
	return crud.NewMemoryRepository(crud.MemoryOptions[Item]{
		Stamp: func(i Item, id int64, created, now time.Time) Item {
			i.ID, i.CreatedAt, i.UpdatedAt = id, created, now
			return i
		},
		Status: func(i Item) string { return i.Status },
		Match: func(i Item, q string) bool {
			q = strings.ToLower(q)
			return strings.Contains(strings.ToLower(i.Name), q) || strings.Contains(strings.ToLower(i.SKU), q)
		},
		Unique: func(i Item) string { return i.SKU },
	})
}
