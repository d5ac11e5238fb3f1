// Package server exposes a paginated collection over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/pagekit/config"
	"github.com/ncobase/pagekit/ctxutil"
	"github.com/ncobase/pagekit/ecode"
	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/metrics"
	"github.com/ncobase/pagekit/net/resp"
	"github.com/ncobase/pagekit/paging"
)

// RequestIDHeader carries the trace id in and out.
const RequestIDHeader = "X-Request-ID"

// Server serves pages of T.
type Server[T any] struct {
	engine  *paging.Engine[T]
	query   paging.Query[T]
	paging  atomic.Pointer[config.Paging]
	path    string
	metrics *metrics.Collector
	ping    func(ctx context.Context) error
	log     *logger.Logger
}

// Option configures a Server.
type Option[T any] func(*Server[T])

// WithPath sets the listing route. Defaults to /records.
func WithPath[T any](path string) Option[T] {
	return func(s *Server[T]) { s.path = path }
}

// WithMetrics mounts the collector's scrape endpoint.
func WithMetrics[T any](c *metrics.Collector) Option[T] {
	return func(s *Server[T]) { s.metrics = c }
}

// WithPing sets the health check.
func WithPing[T any](ping func(ctx context.Context) error) Option[T] {
	return func(s *Server[T]) { s.ping = ping }
}

// WithLogger sets the logger. Defaults to logger.StdLogger().
func WithLogger[T any](l *logger.Logger) Option[T] {
	return func(s *Server[T]) { s.log = l }
}

// New returns a server listing q through e with the page size defaults of p.
func New[T any](e *paging.Engine[T], q paging.Query[T], p *config.Paging, opts ...Option[T]) *Server[T] {
	s := &Server[T]{engine: e, query: q, path: "/records"}
	s.paging.Store(p)
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.StdLogger()
	}
	return s
}

// SetPaging replaces the page size defaults, e.g. from a config.Watch callback.
func (s *Server[T]) SetPaging(p *config.Paging) {
	if p != nil {
		s.paging.Store(p)
	}
}

// Handler returns the gin engine with every route mounted.
func (s *Server[T]) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.trace())

	r.GET(s.path, s.list)
	r.GET("/healthz", s.health)
	if s.metrics != nil {
		h := s.metrics.Handler()
		r.GET(s.metrics.Path(), gin.WrapH(h))
	}
	return r
}

// trace stamps the request context with a trace id and client address and
// logs the request.
func (s *Server[T]) trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(RequestIDHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		ctx = ctxutil.SetClientIP(ctx, ctxutil.ClientIPFromRequest(c.Request))
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, traceID)

		start := time.Now()
		c.Next()
		s.log.WithComponent(ctx, "server").Debugf("%s %s %d %s from %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), ctxutil.GetClientIP(ctx))
	}
}

func (s *Server[T]) list(c *gin.Context) {
	var params paging.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		resp.BadRequest(c.Writer, err.Error())
		return
	}

	model, err := paging.Paginate(c.Request.Context(), s.engine, s.query, params, s.paging.Load())
	if err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, model)
}

func (s *Server[T]) health(c *gin.Context) {
	if s.ping != nil {
		if err := s.ping(c.Request.Context()); err != nil {
			resp.Fail(c.Writer, &resp.Exception{Status: http.StatusServiceUnavailable, Code: ecode.ServiceUnavailable, Errors: err.Error()})
			return
		}
	}
	resp.Success(c.Writer)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server[T]) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof(ctx, "listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
