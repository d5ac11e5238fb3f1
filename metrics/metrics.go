package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ncobase/pagekit/paging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config represents metrics configuration
type Config struct {
	Enabled   bool   `mapstructure:"enabled"`   // Enable metrics collection
	Namespace string `mapstructure:"namespace"` // Prefix for all metric names
	Path      string `mapstructure:"path"`      // HTTP path of the scrape endpoint
}

// DefaultConfig returns the default metrics configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: "pagekit",
		Path:      "/metrics",
	}
}

// Validate validates the metrics configuration
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("metrics namespace is empty")
	}
	if c.Path == "" || c.Path[0] != '/' {
		return fmt.Errorf("metrics path must start with '/', got %q", c.Path)
	}
	return nil
}

// Collector records pagination metrics. It implements paging.Observer.
type Collector struct {
	config   *Config
	gatherer prometheus.Gatherer

	pages    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    prometheus.Histogram
	counts   *prometheus.CounterVec
}

var _ paging.Observer = (*Collector)(nil)

// NewCollector registers the pagination metrics on reg. A nil reg uses a
// private registry.
func NewCollector(cfg *Config, reg *prometheus.Registry) (*Collector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &Collector{
		config:   cfg,
		gatherer: reg,
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "paging",
			Name:      "pages_total",
			Help:      "Pages executed, by strategy, navigation and outcome.",
		}, []string{"strategy", "navigation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "paging",
			Name:      "page_duration_seconds",
			Help:      "Time spent executing a page, including the optional count.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "paging",
			Name:      "page_items",
			Help:      "Items returned per page.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),
		counts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "paging",
			Name:      "total_counts_total",
			Help:      "Total count reads, by cache result.",
		}, []string{"cache"}),
	}

	for _, col := range []prometheus.Collector{c.pages, c.duration, c.items, c.counts} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// ObservePage implements paging.Observer.
func (c *Collector) ObservePage(_ context.Context, o paging.Observation) {
	if !c.config.Enabled {
		return
	}
	strategy := o.Strategy
	if strategy == "" {
		strategy = "none"
	}
	status := "ok"
	if o.Err != nil {
		status = "error"
	}

	c.pages.WithLabelValues(strategy, o.Navigation.String(), status).Inc()
	c.duration.WithLabelValues(strategy).Observe(o.Duration.Seconds())
	if o.Err == nil {
		c.items.Observe(float64(o.Items))
	}
	if o.Counted {
		cache := "miss"
		if o.CountHit {
			cache = "hit"
		}
		c.counts.WithLabelValues(cache).Inc()
	}
}

// Handler returns the scrape endpoint for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Path returns the configured scrape path.
func (c *Collector) Path() string {
	return c.config.Path
}
