package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tillpoint/tillpoint/internal/platform/httpx"
)

// Scanner is implemented by pgx.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Table maps a record type onto a Postgres table with the conventional
// id / created_at / updated_at bookkeeping columns.
//
// Scan must read id, then Columns in order, then created_at and updated_at.
// Values must return one argument per entry in Columns.
type Table[T any] struct {
	Name        string
	Columns     []string
	Search      []string
	Sorts       map[string]string
	DefaultSort string
	Scan        func(Scanner) (T, error)
	Values      func(T) []any
}

func (t Table[T]) selectColumns() string {
	cols := make([]string, 0, len(t.Columns)+3)
	cols = append(cols, "id")
	cols = append(cols, t.Columns...)
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

func (t Table[T]) orderBy(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == httpx.SortDesc {
		dir = "DESC"
	}
	col, ok := t.Sorts[sortBy]
	if !ok {
		col = t.DefaultSort
		if col == "" {
			col = "id"
		}
	}
	return col + " " + dir + ", id " + dir
}

// likeEscaper makes LIKE wildcards in user search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listQuery builds the count and page queries plus their arguments.
func (t Table[T]) listQuery(filters httpx.ListFilters) (string, string, []any) {
	where := " WHERE 1=1"
	var args []any
	if filters.Search != "" && len(t.Search) > 0 {
		args = append(args, "%"+likeEscaper.Replace(filters.Search)+"%")
		clauses := make([]string, 0, len(t.Search))
		for _, col := range t.Search {
			clauses = append(clauses, col+` ILIKE $1 ESCAPE '\'`)
		}
		where += " AND (" + strings.Join(clauses, " OR ") + ")"
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}

	countQuery := "SELECT COUNT(*) FROM " + t.Name + where
	query := "SELECT " + t.selectColumns() + " FROM " + t.Name + where +
		" ORDER BY " + t.orderBy(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	}
	return countQuery, query, args
}

// List returns one page of records plus the unpaginated total.
func (t Table[T]) List(ctx context.Context, db DBTX, filters httpx.ListFilters) ([]T, int, error) {
	countQuery, query, args := t.listQuery(filters)

	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.Name, err)
	}

	if filters.Limit > 0 {
		args = append(args, filters.Limit, filters.Offset())
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.Name, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := t.Scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// Get fetches a single record by id.
func (t Table[T]) Get(ctx context.Context, db DBTX, id int64) (T, error) {
	query := "SELECT " + t.selectColumns() + " FROM " + t.Name + " WHERE id = $1"
	item, err := t.Scan(db.QueryRow(ctx, query, id))
	if err != nil {
		var zero T
		return zero, MapError(err)
	}
	return item, nil
}

// GetBy fetches the first record whose column equals value.
func (t Table[T]) GetBy(ctx context.Context, db DBTX, column string, value any) (T, error) {
	query := "SELECT " + t.selectColumns() + " FROM " + t.Name + " WHERE " + column + " = $1 LIMIT 1"
	item, err := t.Scan(db.QueryRow(ctx, query, value))
	if err != nil {
		var zero T
		return zero, MapError(err)
	}
	return item, nil
}

// Insert stores rec and returns the persisted row.
func (t Table[T]) Insert(ctx context.Context, db DBTX, rec T) (T, error) {
	placeholders := make([]string, len(t.Columns))
	for i := range t.Columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	query := "INSERT INTO " + t.Name + " (" + strings.Join(t.Columns, ", ") + ", created_at, updated_at) VALUES (" +
		strings.Join(placeholders, ", ") + ", NOW(), NOW()) RETURNING " + t.selectColumns()
	item, err := t.Scan(db.QueryRow(ctx, query, t.Values(rec)...))
	if err != nil {
		var zero T
		return zero, MapError(err)
	}
	return item, nil
}

// Update replaces every writable column of the row with id.
func (t Table[T]) Update(ctx context.Context, db DBTX, id int64, rec T) (T, error) {
	sets := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		sets[i] = col + " = $" + strconv.Itoa(i+1)
	}
	args := append(t.Values(rec), id)
	query := "UPDATE " + t.Name + " SET " + strings.Join(sets, ", ") + ", updated_at = NOW() WHERE id = $" +
		strconv.Itoa(len(args)) + " RETURNING " + t.selectColumns()
	item, err := t.Scan(db.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		return zero, MapError(err)
	}
	return item, nil
}

// Delete removes the row with id; a missing row yields httpx.ErrNotFound.
func (t Table[T]) Delete(ctx context.Context, db DBTX, id int64) error {
	tag, err := db.Exec(ctx, "DELETE FROM "+t.Name+" WHERE id = $1", id)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// CountByStatus groups rows by their status column.
func (t Table[T]) CountByStatus(ctx context.Context, db DBTX) (map[string]int, int, error) {
	rows, err := db.Query(ctx, "SELECT status, COUNT(*) FROM "+t.Name+" GROUP BY status")
	if err != nil {
		return nil, 0, fmt.Errorf("stats %s: %w", t.Name, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	total := 0
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, 0, err
		}
		counts[status] = n
		total += n
	}
	return counts, total, rows.Err()
}
