package mongodb

import (
	"context"
	"fmt"

	"github.com/ncobase/pagekit/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the subset of *mongo.Collection a Query reads through.
type Collection interface {
	Name() string
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
}

// Query is an immutable find over a collection whose documents carry an
// integer id in idField.
type Query[T any] struct {
	coll    Collection
	idField string
	base    bson.D

	bounds []paging.Bound
	order  paging.SortDirection
	skip   int
	take   int
}

var (
	_ paging.Query[struct{}] = (*Query[struct{}])(nil)
	_ paging.CountKeyer      = (*Query[struct{}])(nil)
)

// NewQuery returns a query over coll restricted by base, which may be nil.
func NewQuery[T any](coll Collection, idField string, base bson.D) *Query[T] {
	if idField == "" {
		idField = "_id"
	}
	return &Query[T]{coll: coll, idField: idField, base: base, order: paging.Ascending, take: -1}
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.bounds = append([]paging.Bound(nil), q.bounds...)
	return &c
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

var operators = map[paging.Comparison]string{
	paging.GreaterThan:    "$gt",
	paging.GreaterOrEqual: "$gte",
	paging.LessThan:       "$lt",
	paging.LessOrEqual:    "$lte",
}

// FilterDocument returns the find filter: the base filter and every bound,
// joined with $and when there is more than one condition.
func (q *Query[T]) FilterDocument() bson.D {
	conds := make(bson.A, 0, len(q.bounds)+1)
	if len(q.base) > 0 {
		conds = append(conds, q.base)
	}
	for _, b := range q.bounds {
		conds = append(conds, bson.D{{Key: q.idField, Value: bson.D{{Key: operators[b.Comparison], Value: b.ID}}}})
	}
	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conds[0].(bson.D)
	default:
		return bson.D{{Key: "$and", Value: conds}}
	}
}

// FindOptions returns the sort, skip and limit of the query.
func (q *Query[T]) FindOptions() *options.FindOptions {
	dir := 1
	if q.order == paging.Descending {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: q.idField, Value: dir}})
	if q.skip > 0 {
		opts.SetSkip(int64(q.skip))
	}
	if q.take >= 0 {
		opts.SetLimit(int64(q.take))
	}
	return opts
}

// List implements paging.Query.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	cur, err := q.coll.Find(ctx, q.FilterDocument(), q.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("mongodb: find %s: %w", q.coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := make([]T, 0, max(q.take, 0))
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongodb: decode %s: %w", q.coll.Name(), err)
	}
	return out, nil
}

// Count implements paging.Query.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	n, err := q.coll.CountDocuments(ctx, q.FilterDocument())
	if err != nil {
		return 0, fmt.Errorf("mongodb: count %s: %w", q.coll.Name(), err)
	}
	return n, nil
}

// CountKey implements paging.CountKeyer.
func (q *Query[T]) CountKey() string {
	return fmt.Sprintf("mongodb:%s:%v", q.coll.Name(), q.base)
}
