package paging

import (
	"context"
	"sort"
)

// Comparison is the relation a Bound imposes on identifiers.
type Comparison int

const (
	GreaterThan Comparison = iota + 1
	GreaterOrEqual
	LessThan
	LessOrEqual
)

// Operator returns the SQL operator for the comparison.
func (c Comparison) Operator() string {
	switch c {
	case GreaterThan:
		return ">"
	case GreaterOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessOrEqual:
		return "<="
	default:
		return ""
	}
}

// Bound restricts a query to identifiers on one side of ID.
type Bound struct {
	Comparison Comparison
	ID         int64
}

// Match reports whether id satisfies the bound.
func (b Bound) Match(id int64) bool {
	switch b.Comparison {
	case GreaterThan:
		return id > b.ID
	case GreaterOrEqual:
		return id >= b.ID
	case LessThan:
		return id < b.ID
	case LessOrEqual:
		return id <= b.ID
	default:
		return false
	}
}

// After returns the bound for rows strictly past id in display order dir.
func After(dir SortDirection, id int64) Bound {
	if dir == Descending {
		return Bound{Comparison: LessThan, ID: id}
	}
	return Bound{Comparison: GreaterThan, ID: id}
}

// From returns the bound for rows at or past id in display order dir.
func From(dir SortDirection, id int64) Bound {
	if dir == Descending {
		return Bound{Comparison: LessOrEqual, ID: id}
	}
	return Bound{Comparison: GreaterOrEqual, ID: id}
}

// Before returns the bound for rows strictly before id in display order dir.
func Before(dir SortDirection, id int64) Bound {
	return After(dir.Reverse(), id)
}

// Query is the ordered, filterable, countable collection the engine reads
// from. Implementations are immutable: every builder method returns a new
// query. The engine calls them in the order Filter, OrderBy, Skip, Take, List.
type Query[T any] interface {
	// Filter restricts rows to those matching b.
	Filter(b Bound) Query[T]
	// OrderBy orders rows by identifier.
	OrderBy(dir SortDirection) Query[T]
	// Skip drops the first n rows.
	Skip(n int) Query[T]
	// Take limits the result to n rows.
	Take(n int) Query[T]
	// List runs the query.
	List(ctx context.Context) ([]T, error)
	// Count returns the number of rows matching the filters, ignoring Skip and Take.
	Count(ctx context.Context) (int64, error)
}

// CountKeyer is implemented by queries whose counts can be cached. The key
// must identify the filtered collection, not the page. An empty key disables
// caching.
type CountKeyer interface {
	CountKey() string
}

// IDFunc returns the sortable identifier of an item.
type IDFunc[T any] func(item T) int64

// SliceQuery is an in-memory Query over a slice.
type SliceQuery[T any] struct {
	items  []T
	idOf   IDFunc[T]
	where  []func(T) bool
	bounds []Bound
	order  SortDirection
	skip   int
	take   int
}

// NewSliceQuery returns a query over items. The slice is not copied or
// modified.
func NewSliceQuery[T any](items []T, idOf IDFunc[T]) *SliceQuery[T] {
	return &SliceQuery[T]{items: items, idOf: idOf, order: Ascending, take: -1}
}

func (q *SliceQuery[T]) clone() *SliceQuery[T] {
	c := *q
	c.where = append([]func(T) bool(nil), q.where...)
	c.bounds = append([]Bound(nil), q.bounds...)
	return &c
}

// Where adds an arbitrary predicate, the in-memory counterpart of a base
// WHERE clause.
func (q *SliceQuery[T]) Where(fn func(T) bool) *SliceQuery[T] {
	c := q.clone()
	c.where = append(c.where, fn)
	return c
}

// Filter implements Query.
func (q *SliceQuery[T]) Filter(b Bound) Query[T] {
	c := q.clone()
	c.bounds = append(c.bounds, b)
	return c
}

// OrderBy implements Query.
func (q *SliceQuery[T]) OrderBy(dir SortDirection) Query[T] {
	c := q.clone()
	c.order = dir
	return c
}

// Skip implements Query.
func (q *SliceQuery[T]) Skip(n int) Query[T] {
	c := q.clone()
	c.skip = max(n, 0)
	return c
}

// Take implements Query.
func (q *SliceQuery[T]) Take(n int) Query[T] {
	c := q.clone()
	c.take = max(n, 0)
	return c
}

func (q *SliceQuery[T]) matching() []T {
	out := make([]T, 0, len(q.items))
outer:
	for _, it := range q.items {
		for _, fn := range q.where {
			if !fn(it) {
				continue outer
			}
		}
		id := q.idOf(it)
		for _, b := range q.bounds {
			if !b.Match(id) {
				continue outer
			}
		}
		out = append(out, it)
	}
	return out
}

// List implements Query.
func (q *SliceQuery[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := q.matching()
	sort.SliceStable(rows, func(i, j int) bool {
		if q.order == Descending {
			return q.idOf(rows[i]) > q.idOf(rows[j])
		}
		return q.idOf(rows[i]) < q.idOf(rows[j])
	})
	if q.skip >= len(rows) {
		return []T{}, nil
	}
	rows = rows[q.skip:]
	if q.take >= 0 && q.take < len(rows) {
		rows = rows[:q.take]
	}
	return rows, nil
}

// Count implements Query.
func (q *SliceQuery[T]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(q.matching())), nil
}
