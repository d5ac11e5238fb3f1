package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/pagekit/config"
	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/metrics"
	"github.com/ncobase/pagekit/paging"
	"github.com/ncobase/pagekit/server"
	"github.com/ncobase/pagekit/tracing"
	"github.com/ncobase/pagekit/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var (
		addr string
		path string
		seed int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := root.load()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, version.GetVersionInfo())
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Warnf(ctx, "tracing shutdown: %v", err)
				}
			}()

			col, err := openCollection(ctx, cfg, seedSize(cfg, seed))
			if err != nil {
				return err
			}
			defer col.close()

			var (
				engineOpts []paging.Option
				serverOpts = []server.Option[Record]{server.WithPath[Record](path), server.WithPing[Record](col.ping)}
			)
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				collector, err := metrics.NewCollector(cfg.Metrics, reg)
				if err != nil {
					return err
				}
				engineOpts = append(engineOpts, paging.WithObserver(collector))
				serverOpts = append(serverOpts, server.WithMetrics[Record](collector))
			}

			e, err := newEngine(cfg, col, engineOpts...)
			if err != nil {
				return err
			}

			if cfg.RunMode == "debug" {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.New(e, col.query, cfg.Paging, serverOpts...)

			if root.configFile != "" {
				config.Watch(func(c *config.Config) {
					srv.SetPaging(c.Paging)
				})
			}

			logger.Infof(ctx, "serving %s store", col.name)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&path, "path", "/records", "listing route")
	cmd.Flags().IntVar(&seed, "seed", -1, "records to generate into the store (defaults to 100 for the in-memory store)")
	return cmd
}
