package paging

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/pagekit/logging/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ncobase/pagekit/paging"

// IDValidator rejects cursor ids that could not have been produced by the
// collection, for example sortid.Codec.Validate.
type IDValidator func(id int64) error

// CountCache stores total counts between requests, keyed by CountKeyer.
type CountCache interface {
	GetCount(ctx context.Context, key string) (count int64, ok bool, err error)
	SetCount(ctx context.Context, key string, count int64) error
}

// Observation describes one Execute call.
type Observation struct {
	Strategy   string
	Navigation NavigationDirection
	Items      int
	Counted    bool
	CountHit   bool
	Duration   time.Duration
	Err        error
}

// Observer receives an Observation after every Execute call.
type Observer interface {
	ObservePage(ctx context.Context, o Observation)
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	validate IDValidator
	jumps    bool
	counts   CountCache
	observer Observer
	log      *logger.Logger
	tracer   trace.Tracer
}

// WithIDValidator validates every non-empty cursor id before querying.
func WithIDValidator(v IDValidator) Option {
	return func(o *options) { o.validate = v }
}

// WithoutJumps restricts the engine to adjacent pages. Requests that need
// an offset scan fail with ErrJumpUnsupported.
func WithoutJumps() Option {
	return func(o *options) { o.jumps = false }
}

// WithCountCache reads and writes total counts through c for queries that
// implement CountKeyer.
func WithCountCache(c CountCache) Option {
	return func(o *options) { o.counts = c }
}

// WithObserver reports every execution to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithLogger sets the logger. Defaults to logger.StdLogger().
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracerProvider sets the OpenTelemetry tracer provider. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp.Tracer(tracerName) }
}

// Engine executes pagination requests against a Query. An Engine holds only
// configuration and is safe for concurrent use.
type Engine[T any] struct {
	idOf IDFunc[T]
	opts options
}

// NewEngine returns an engine reading item ids with idOf.
func NewEngine[T any](idOf IDFunc[T], opts ...Option) *Engine[T] {
	o := options{
		validate: defaultValidator,
		jumps:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.StdLogger()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return &Engine[T]{idOf: idOf, opts: o}
}

func defaultValidator(id int64) error {
	if id < 0 {
		return fmt.Errorf("negative id %d", id)
	}
	return nil
}

// Execute fetches the page described by req. Store errors are wrapped and
// returned as is; nothing is retried.
func (e *Engine[T]) Execute(ctx context.Context, base Query[T], req Request) (res *Result[T], err error) {
	if base == nil {
		return nil, ErrNilQuery
	}
	req = e.normalize(req)

	ctx, span := e.opts.tracer.Start(ctx, "paging.Execute", trace.WithAttributes(
		attribute.Int("paging.page", req.PageNumber),
		attribute.Int("paging.cursor_page", req.Cursor.PageNumber),
		attribute.Int("paging.size", req.PageSize.Size),
		attribute.String("paging.direction", string(req.SortDirection())),
		attribute.String("paging.navigation", req.NavigationDirection().String()),
	))
	start := time.Now()
	obs := Observation{Navigation: req.NavigationDirection()}
	defer func() {
		obs.Duration = time.Since(start)
		obs.Err = err
		if res != nil {
			obs.Items = len(res.Items)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			e.opts.log.WithComponent(ctx, "paging").Warnf("page %d failed: %v", req.PageNumber, err)
		} else {
			span.SetStatus(codes.Ok, "")
			e.opts.log.WithComponent(ctx, "paging").Debugf("page %d via %s: %d items, next=%t previous=%t",
				req.PageNumber, obs.Strategy, obs.Items, res.Info.HasNext, res.Info.HasPrevious)
		}
		span.End()
		if e.opts.observer != nil {
			e.opts.observer.ObservePage(ctx, obs)
		}
	}()

	if err := e.validateCursor(req.Cursor); err != nil {
		return nil, err
	}

	p, err := e.plan(req)
	if err != nil {
		return nil, err
	}
	obs.Strategy = p.strategy
	span.SetAttributes(attribute.String("paging.strategy", p.strategy), attribute.Int("paging.skip", p.skip))

	total := req.Total
	if req.UpdateTotalCount {
		count, hit, err := e.count(ctx, base)
		if err != nil {
			return nil, err
		}
		obs.Counted, obs.CountHit = true, hit
		total = NewTotal(count, req.PageSize.Size)
	}

	items, probe, err := fetch(ctx, base, p)
	if err != nil {
		return nil, fmt.Errorf("paging: list: %w", err)
	}
	if items == nil {
		items = make([]T, 0)
	}

	if len(items) == 0 && p.skip > 0 && !p.backward && !total.CountSpecified() {
		// Past the end: only a count tells whether earlier pages exist.
		count, hit, err := e.count(ctx, base)
		if err != nil {
			return nil, err
		}
		obs.Counted, obs.CountHit = true, hit
		total = NewTotal(count, req.PageSize.Size)
	}

	hasNext, hasPrevious := p.flags(req, len(items), probe, total)
	info := ResultInfo{
		PageNumber:    req.PageNumber,
		PageSize:      req.PageSize,
		SortDirection: req.SortDirection(),
		FirstID:       NoID,
		LastID:        NoID,
		HasNext:       hasNext,
		HasPrevious:   hasPrevious,
		Total:         total,
	}
	if len(items) > 0 {
		info.FirstID = e.idOf(items[0])
		info.LastID = e.idOf(items[len(items)-1])
	} else if !p.backward {
		// A page past the end has nothing to anchor on.
		info.HasNext = false
	}

	return &Result[T]{Items: items, Info: info, Request: req}, nil
}

// normalize clamps the page size of requests built by hand or decoded from
// untrusted input.
func (e *Engine[T]) normalize(req Request) Request {
	if req.PageSize.MaxSize == 0 && req.PageSize.Size > 0 {
		req.PageSize = NewPageSize(req.PageSize.Size, req.PageSize.Size)
	}
	if !req.PageSize.valid() {
		req.PageSize = NewPageSizeOverride(req.PageSize.Size, req.PageSize.MaxSize)
	}
	if req.PageNumber < 1 {
		req.PageNumber = 1
	}
	if req.Cursor.PageNumber < 1 {
		req.Cursor.PageNumber = 1
	}
	if req.Cursor.SortDirection == "" {
		req.Cursor.SortDirection = Ascending
	}
	return req
}

func (e *Engine[T]) validateCursor(c Cursor) error {
	if !c.SortDirection.Valid() {
		return fmt.Errorf("%w: sort direction %q", ErrInvalidCursor, c.SortDirection)
	}
	for _, id := range []int64{c.FirstID, c.LastID} {
		if id == NoID {
			continue
		}
		if err := e.opts.validate(id); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
	}
	return nil
}

func (e *Engine[T]) plan(req Request) (plan, error) {
	if p, ok := (adjacentStrategy{}).plan(req); ok {
		return p, nil
	}
	if !e.opts.jumps {
		return plan{}, fmt.Errorf("%w: page %d from page %d", ErrJumpUnsupported, req.PageNumber, req.Cursor.PageNumber)
	}
	p, _ := (jumpStrategy{}).plan(req)
	return p, nil
}

// count returns the unpaginated count of base, through the cache when one is
// configured and base has a key.
func (e *Engine[T]) count(ctx context.Context, base Query[T]) (int64, bool, error) {
	var key string
	if keyer, ok := base.(CountKeyer); ok && e.opts.counts != nil {
		key = keyer.CountKey()
	}
	cacheable := key != ""
	if cacheable {
		count, ok, err := e.opts.counts.GetCount(ctx, key)
		if err != nil {
			e.opts.log.Warnf(ctx, "paging: count cache get: %v", err)
		} else if ok {
			return count, true, nil
		}
	}

	count, err := base.Count(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("paging: count: %w", err)
	}
	if cacheable {
		if err := e.opts.counts.SetCount(ctx, key, count); err != nil {
			e.opts.log.Warnf(ctx, "paging: count cache set: %v", err)
		}
	}
	return count, false, nil
}

// Walk executes req and follows NextPage until a page reports no next page
// or fn returns false.
func (e *Engine[T]) Walk(ctx context.Context, base Query[T], req Request, fn func(*Result[T]) bool) error {
	for {
		res, err := e.Execute(ctx, base, req)
		if err != nil {
			return err
		}
		if !fn(res) || !res.Info.HasNext {
			return nil
		}
		req = res.NextPage()
	}
}
