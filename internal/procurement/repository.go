package procurement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint/tillpoint/internal/crud"
	"github.com/tillpoint/tillpoint/internal/inventory"
	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

var table = db.Table[PurchaseOrder]{
	Name:        "purchase_orders",
	Columns:     []string{"number", "supplier_id", "items", "total", "status", "expected_at"},
	Search:      []string{"number"},
	Sorts:       map[string]string{"number": "number", "total": "total", "expected_at": "expected_at", "created_at": "created_at"},
	DefaultSort: "created_at",
	Scan: func(row db.Scanner) (PurchaseOrder, error) {
		var (
			p   PurchaseOrder
			raw []byte
		)
		if err := row.Scan(&p.ID, &p.Number, &p.SupplierID, &raw, &p.Total, &p.Status, &p.ExpectedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return p, err
		}
		if err := json.Unmarshal(raw, &p.Items); err != nil {
			return p, fmt.Errorf("decode purchase order items: %w", err)
		}
		return p, nil
	},
	Values: func(p PurchaseOrder) []any {
		items, _ := json.Marshal(p.Items)
		return []any{p.Number, p.SupplierID, items, p.Total, p.Status, p.ExpectedAt}
	},
}

// TxRepository is the transactional view used while receiving goods.
type TxRepository interface {
	GetForUpdate(ctx context.Context, id int64) (PurchaseOrder, error)
	MarkReceived(ctx context.Context, id int64) (PurchaseOrder, error)
	Restock(ctx context.Context, itemID int64, qty int) error
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Repository persists purchase orders.
type Repository struct {
	*crud.PgRepository[PurchaseOrder]
	pool *pgxpool.Pool
}

// NewRepository returns the Postgres repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{PgRepository: crud.NewPgRepository(pool, table), pool: pool}
}

// WithTx implements Transactor.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, pgTx{tx: tx})
	})
}

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) GetForUpdate(ctx context.Context, id int64) (PurchaseOrder, error) {
	// Hold the row lock until commit.
	if _, err := t.tx.Exec(ctx, `SELECT 1 FROM purchase_orders WHERE id = $1 FOR UPDATE`, id); err != nil {
		return PurchaseOrder{}, db.MapError(err)
	}
	return table.Get(ctx, t.tx, id)
}

func (t pgTx) MarkReceived(ctx context.Context, id int64) (PurchaseOrder, error) {
	tag, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, StatusReceived)
	if err != nil {
		return PurchaseOrder{}, db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return PurchaseOrder{}, httpx.ErrNotFound
	}
	return table.Get(ctx, t.tx, id)
}

func (t pgTx) Restock(ctx context.Context, itemID int64, qty int) error {
	_, err := inventory.Restock(ctx, t.tx, itemID, qty)
	if errors.Is(err, httpx.ErrNotFound) {
		return httpx.Invalid("items", fmt.Sprintf("inventory item %d does not exist", itemID))
	}
	return err
}

// NewMemoryRepository returns an in-process repository.
func NewMemoryRepository() *crud.MemoryRepository[PurchaseOrder] {
	return crud.NewMemoryRepository(crud.MemoryOptions[PurchaseOrder]{
		Stamp: func(p PurchaseOrder, id int64, created, now time.Time) PurchaseOrder {
			p.ID, p.CreatedAt, p.UpdatedAt = id, created, now
			return p
		},
		Status: func(p PurchaseOrder) string { return p.Status },
		Unique: func(p PurchaseOrder) string { return p.Number },
	})
}
