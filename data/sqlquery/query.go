// Package sqlquery implements paging.Query over a database/sql table with an
// integer id column.
package sqlquery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ncobase/pagekit/paging"
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ScanFunc reads one row selected with the query's columns.
type ScanFunc[T any] func(rows *sql.Rows) (T, error)

type clause struct {
	sql  string
	args []any
}

// Query is an immutable SELECT over one table.
type Query[T any] struct {
	db       Queryer
	dialect  Dialect
	table    string
	idColumn string
	columns  []string
	scan     ScanFunc[T]

	where  []clause
	bounds []paging.Bound
	order  paging.SortDirection
	skip   int
	take   int
}

var (
	_ paging.Query[struct{}] = (*Query[struct{}])(nil)
	_ paging.CountKeyer      = (*Query[struct{}])(nil)
)

// New returns a query selecting columns from table, ordered by idColumn.
func New[T any](db Queryer, dialect Dialect, table, idColumn string, columns []string, scan ScanFunc[T]) *Query[T] {
	return &Query[T]{
		db:       db,
		dialect:  dialect,
		table:    table,
		idColumn: idColumn,
		columns:  columns,
		scan:     scan,
		order:    paging.Ascending,
		take:     -1,
	}
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.where = append([]clause(nil), q.where...)
	c.bounds = append([]paging.Bound(nil), q.bounds...)
	return &c
}

// Where adds a base condition written with '?' markers, for example
// Where("channel = ?", 7). Conditions are joined with AND.
func (q *Query[T]) Where(cond string, args ...any) *Query[T] {
	c := q.clone()
	c.where = append(c.where, clause{sql: cond, args: args})
	return c
}

// Filter implements paging.Query.
func (q *Query[T]) Filter(b paging.Bound) paging.Query[T] {
	c := q.clone()
	c.bounds = append(c.bounds, b)
	return c
}

// OrderBy implements paging.Query.
func (q *Query[T]) OrderBy(dir paging.SortDirection) paging.Query[T] {
	c := q.clone()
	c.order = dir
	return c
}

// Skip implements paging.Query.
func (q *Query[T]) Skip(n int) paging.Query[T] {
	c := q.clone()
	c.skip = max(n, 0)
	return c
}

// Take implements paging.Query.
func (q *Query[T]) Take(n int) paging.Query[T] {
	c := q.clone()
	c.take = max(n, 0)
	return c
}

// whereSQL renders the WHERE clause, numbering placeholders from 1.
func (q *Query[T]) whereSQL(withBounds bool) (string, []any) {
	var (
		parts []string
		args  []any
		next  = 1
	)
	for _, w := range q.where {
		var s string
		s, next = rebind(q.dialect, w.sql, next)
		parts = append(parts, "("+s+")")
		args = append(args, w.args...)
	}
	if withBounds {
		for _, b := range q.bounds {
			parts = append(parts, fmt.Sprintf("%s %s %s", q.dialect.Quote(q.idColumn), b.Comparison.Operator(), q.dialect.Placeholder(next)))
			args = append(args, b.ID)
			next++
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// SQL returns the SELECT statement and its arguments.
func (q *Query[T]) SQL() (string, []any) {
	cols := make([]string, len(q.columns))
	for i, c := range q.columns {
		cols[i] = q.dialect.Quote(c)
	}
	where, args := q.whereSQL(true)
	dir := "ASC"
	if q.order == paging.Descending {
		dir = "DESC"
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s%s",
		strings.Join(cols, ", "), q.dialect.Quote(q.table), where,
		q.dialect.Quote(q.idColumn), dir, q.dialect.Limit(q.take, q.skip))
	return stmt, args
}

// CountSQL returns the COUNT statement and its arguments.
func (q *Query[T]) CountSQL() (string, []any) {
	where, args := q.whereSQL(true)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", q.dialect.Quote(q.table), where), args
}

// List implements paging.Query.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	stmt, args := q.SQL()
	rows, err := q.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlquery: select %s: %w", q.table, err)
	}
	defer rows.Close()

	out := make([]T, 0, max(q.take, 0))
	for rows.Next() {
		item, err := q.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlquery: scan %s: %w", q.table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlquery: rows %s: %w", q.table, err)
	}
	return out, nil
}

// Count implements paging.Query.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	stmt, args := q.CountSQL()
	var n int64
	if err := q.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlquery: count %s: %w", q.table, err)
	}
	return n, nil
}

// CountKey implements paging.CountKeyer. The key covers the table and base
// conditions, not the page bounds.
func (q *Query[T]) CountKey() string {
	where, args := q.whereSQL(false)
	return fmt.Sprintf("%s:%s%s:%v", q.dialect.Name(), q.table, where, args)
}
