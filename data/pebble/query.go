package pebble

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/ncobase/pagekit/paging"
)

// DecodeFunc decodes a stored value. value is only valid during the call.
type DecodeFunc[T any] func(id int64, value []byte) (T, error)

// Query is an immutable range scan over a Store.
type Query[T any] struct {
	store  *Store
	decode DecodeFunc[T]
	where  []func(T) bool
	names  []string
	bounds []paging.Bound
	order  paging.SortDirection
	skip   int
	take   int
}

var (
	_ paging.Query[struct{}] = (*Query[struct{}])(nil)
	_ paging.CountKeyer      = (*Query[struct{}])(nil)
)

// NewQuery returns a query over every record of s.
func NewQuery[T any](s *Store, decode DecodeFunc[T]) *Query[T] {
	return &Query[T]{store: s, decode: decode, order: paging.Ascending, take: -1}
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.where = append([]func(T) bool(nil), q.where...)
	c.names = append([]string(nil), q.names...)
	c.bounds = append([]paging.Bound(nil), q.bounds...)
	return &c
}

// Where adds a predicate evaluated on decoded records. name identifies the
// predicate in CountKey.
func (q *Query[T]) Where(name string, fn func(T) bool) *Query[T] {
	c := q.clone()
	c.where = append(c.where, fn)
	c.names = append(c.names, name)
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

// idRange folds the bounds into an inclusive id range.
func (q *Query[T]) idRange() (lo, hi int64, ok bool) {
	lo, hi = 0, math.MaxInt64
	for _, b := range q.bounds {
		switch b.Comparison {
		case paging.GreaterThan:
			if b.ID == math.MaxInt64 {
				return 0, 0, false
			}
			lo = max(lo, b.ID+1)
		case paging.GreaterOrEqual:
			lo = max(lo, b.ID)
		case paging.LessThan:
			if b.ID <= 0 {
				return 0, 0, false
			}
			hi = min(hi, b.ID-1)
		case paging.LessOrEqual:
			hi = min(hi, b.ID)
		}
	}
	return max(lo, 0), hi, lo <= hi
}

// scan calls fn for each matching record in query order until fn returns
// false.
func (q *Query[T]) scan(ctx context.Context, fn func(T) bool) error {
	lo, hi, ok := q.idRange()
	if !ok || hi < 0 {
		return nil
	}
	lower, upper := q.store.key(lo), q.store.upper(hi)

	it, err := q.store.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return fmt.Errorf("pebble: create iterator: %w", err)
	}
	defer it.Close()

	desc := q.order == paging.Descending
	var valid bool
	if desc {
		valid = it.SeekLT(upper)
	} else {
		valid = it.SeekGE(lower)
	}
	for ; valid; valid = step(it, desc) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !q.store.owns(it.Key()) {
			// A store whose prefix extends ours shares the key range.
			continue
		}
		id, err := q.store.idOf(it.Key())
		if err != nil {
			return err
		}
		item, err := q.decode(id, it.Value())
		if err != nil {
			return fmt.Errorf("pebble: decode %d: %w", id, err)
		}
		if !q.match(item) {
			continue
		}
		if !fn(item) {
			return nil
		}
	}
	return it.Error()
}

func step(it *pebble.Iterator, desc bool) bool {
	if desc {
		return it.Prev()
	}
	return it.Next()
}

func (q *Query[T]) match(item T) bool {
	for _, fn := range q.where {
		if !fn(item) {
			return false
		}
	}
	return true
}

// List implements paging.Query.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	out := make([]T, 0, max(q.take, 0))
	if q.take == 0 {
		return out, nil
	}
	skipped := 0
	err := q.scan(ctx, func(item T) bool {
		if skipped < q.skip {
			skipped++
			return true
		}
		out = append(out, item)
		return q.take < 0 || len(out) < q.take
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count implements paging.Query.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.scan(ctx, func(T) bool {
		n++
		return true
	})
	return n, err
}

// CountKey implements paging.CountKeyer.
func (q *Query[T]) CountKey() string {
	return "pebble:" + string(q.store.prefix) + strings.Join(q.names, "|")
}
