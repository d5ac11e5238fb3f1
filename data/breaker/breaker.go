// Package breaker guards a paging.Query with a circuit breaker so that a
// failing store is shed instead of queried on every page request.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/paging"
	"github.com/sony/gobreaker"
)

// Settings configures New.
type Settings struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultSettings returns 5 failures, a 30s open period and one probe.
func DefaultSettings() Settings {
	return Settings{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenRequests: 1}
}

// New returns a breaker named name.
func New(name string, s Settings) *gobreaker.CircuitBreaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = DefaultSettings().MaxFailures
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about the store.
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(context.Background(), "breaker %s: %s -> %s", name, from, to)
		},
	})
}

// Query runs the reads of a wrapped query through a circuit breaker.
type Query[T any] struct {
	inner paging.Query[T]
	cb    *gobreaker.CircuitBreaker
}

var _ paging.Query[struct{}] = (*Query[struct{}])(nil)

// Wrap guards q with cb.
func Wrap[T any](q paging.Query[T], cb *gobreaker.CircuitBreaker) *Query[T] {
	return &Query[T]{inner: q, cb: cb}
}

func (q *Query[T]) with(inner paging.Query[T]) *Query[T] {
	return &Query[T]{inner: inner, cb: q.cb}
}

// Filter implements paging.Query.
func (q *Query[T]) Filter(b paging.Bound) paging.Query[T] { return q.with(q.inner.Filter(b)) }

// OrderBy implements paging.Query.
func (q *Query[T]) OrderBy(dir paging.SortDirection) paging.Query[T] {
	return q.with(q.inner.OrderBy(dir))
}

// Skip implements paging.Query.
func (q *Query[T]) Skip(n int) paging.Query[T] { return q.with(q.inner.Skip(n)) }

// Take implements paging.Query.
func (q *Query[T]) Take(n int) paging.Query[T] { return q.with(q.inner.Take(n)) }

// List implements paging.Query.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	out, err := q.cb.Execute(func() (any, error) {
		return q.inner.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]T), nil
}

// Count implements paging.Query.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	out, err := q.cb.Execute(func() (any, error) {
		return q.inner.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	return out.(int64), nil
}

// CountKey forwards the wrapped query's key so cached counts survive the
// wrapper.
func (q *Query[T]) CountKey() string {
	if k, ok := q.inner.(paging.CountKeyer); ok {
		return k.CountKey()
	}
	return ""
}
