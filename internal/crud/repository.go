package crud

import (
	"context"

	"github.com/tillpoint/tillpoint/internal/platform/db"
	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// PgRepository serves a Repository from a db.Table.
type PgRepository[T any] struct {
	db    db.DBTX
	table db.Table[T]
}

// NewPgRepository binds table to a pool or transaction.
func NewPgRepository[T any](conn db.DBTX, table db.Table[T]) *PgRepository[T] {
	return &PgRepository[T]{db: conn, table: table}
}

// WithTx returns a repository bound to tx.
func (r *PgRepository[T]) WithTx(tx db.DBTX) *PgRepository[T] {
	return &PgRepository[T]{db: tx, table: r.table}
}

// Table exposes the table mapping.
func (r *PgRepository[T]) Table() db.Table[T] {
	return r.table
}

func (r *PgRepository[T]) List(ctx context.Context, filters httpx.ListFilters) ([]T, int, error) {
	return r.table.List(ctx, r.db, filters)
}

func (r *PgRepository[T]) Get(ctx context.Context, id int64) (T, error) {
	return r.table.Get(ctx, r.db, id)
}

func (r *PgRepository[T]) Create(ctx context.Context, rec T) (T, error) {
	return r.table.Insert(ctx, r.db, rec)
}

func (r *PgRepository[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	return r.table.Update(ctx, r.db, id, rec)
}

func (r *PgRepository[T]) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, r.db, id)
}

func (r *PgRepository[T]) CountByStatus(ctx context.Context) (map[string]int, int, error) {
	return r.table.CountByStatus(ctx, r.db)
}
