package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ncobase/pagekit/config"
	"github.com/ncobase/pagekit/data/connection"
	"github.com/ncobase/pagekit/ecode"
	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/paging"
	"github.com/spf13/cobra"
)

// defaultSeed is the size of the in-memory collection when no store is
// configured.
const defaultSeed = 100

type pageOptions struct {
	size  int
	desc  bool
	token string
	page  int
	seed  int
	total bool
	all   bool
}

func newPageCommand(root *rootOptions) *cobra.Command {
	opts := &pageOptions{}

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Fetch pages from the configured store",
		Long: `Fetch a page from the configured store and print it as JSON.

Without a store in the configuration, a generated in-memory collection is
paged. Pass the printed "next" or "previous" token back with --token to
continue the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := root.load()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			col, err := openCollection(ctx, cfg, seedSize(cfg, opts.seed))
			if err != nil {
				return err
			}
			defer col.close()

			e, err := newEngine(cfg, col)
			if err != nil {
				return err
			}
			req, err := opts.request(cfg)
			if err != nil {
				return withCode(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !opts.all {
				res, err := e.Execute(ctx, col.query, req)
				if err != nil {
					return withCode(err)
				}
				return enc.Encode(res.Model())
			}

			var encErr error
			err = e.Walk(ctx, col.query, req, func(res *paging.Result[Record]) bool {
				encErr = enc.Encode(res.Model())
				return encErr == nil
			})
			if err != nil {
				return withCode(err)
			}
			return encErr
		},
	}

	cmd.Flags().IntVarP(&opts.size, "size", "s", 0, "page size (defaults to paging.default_size)")
	cmd.Flags().BoolVar(&opts.desc, "desc", false, "newest first")
	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "continue from a page token")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number to open without a token")
	cmd.Flags().IntVar(&opts.seed, "seed", -1, fmt.Sprintf("records to generate into the store (defaults to %d for the in-memory store)", defaultSeed))
	cmd.Flags().BoolVar(&opts.total, "total", false, "count the collection")
	cmd.Flags().BoolVar(&opts.all, "all", false, "follow next pages to the end")
	return cmd
}

func (o *pageOptions) request(cfg *config.Config) (paging.Request, error) {
	countTotal := o.total || cfg.Paging.CountTotal
	if o.token != "" {
		return paging.RequestFromParams(paging.Params{Token: o.token, Total: o.total}, cfg.Paging)
	}

	dir := paging.Ascending
	if o.desc {
		dir = paging.Descending
	}
	req := cfg.Paging.FirstPage(o.size, dir).WithTotalCountUpdate(countTotal)
	if o.page > 1 {
		req = paging.NewRequest(o.page, req.PageSize, paging.DefaultCursor(dir), paging.WithUpdateTotalCount(countTotal))
	}
	return req, nil
}

func seedSize(cfg *config.Config, seed int) int {
	if seed >= 0 {
		return seed
	}
	if connection.StoreName(cfg.Data) == "" {
		return defaultSeed
	}
	return 0
}

// newEngine builds the record engine from the configuration.
func newEngine(cfg *config.Config, col *collection, extra ...paging.Option) (*paging.Engine[Record], error) {
	validate, err := idValidator(cfg.SortID)
	if err != nil {
		return nil, err
	}
	opts := []paging.Option{
		paging.WithIDValidator(validate),
		paging.WithLogger(logger.StdLogger()),
	}
	opts = append(opts, cfg.Paging.EngineOptions()...)
	if col.counts != nil {
		opts = append(opts, paging.WithCountCache(col.counts))
	}
	opts = append(opts, extra...)
	return paging.NewEngine(recordID, opts...), nil
}

// withCode prefixes err with its ecode message and number.
func withCode(err error) error {
	code := ecode.FromError(err)
	return fmt.Errorf("%s (code %d): %w", ecode.Text(code), code, err)
}
