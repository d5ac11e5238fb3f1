package commands

import (
	"fmt"

	"github.com/ncobase/pagekit/config"
	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/version"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "pagekit",
		Short:         "Sortable identifiers and cursor pagination",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file path (defaults are used when empty)")

	rootCmd.AddCommand(
		newIDCommand(opts),
		newPageCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// load reads the configuration and initializes the logger. The returned
// cleanup closes the log file, if any.
func (o *rootOptions) load() (*config.Config, func(), error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadConfig(o.configFile)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cleanup, err := logger.Init(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetVersion(version.GetVersionInfo().Version)
	return cfg, cleanup, nil
}
