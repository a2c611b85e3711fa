package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/querygate/pkg/catalog"
	"mercator-hq/querygate/pkg/cli"
	"mercator-hq/querygate/pkg/config"
	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/params"
	"mercator-hq/querygate/pkg/store"
	"mercator-hq/querygate/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile     string
	catalogPath string
	dbPath      string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "querygate",
	Short: "querygate - whitelisted read-only queries over SQLite",
	Long: `querygate publishes SQLite tables as catalog resources addressed by URI
templates and serves reads with OData-style query parameters:

  filter    boolean expression over declared properties
  select    comma-separated list of declared properties
  orderby   comma-separated "<property> [asc|desc]" clauses
  top       row limit, 1 to 1000
  skip      row offset

Every parameter is checked against the resource's property whitelist and a
denylist of injection patterns before any SQL is built.

Configuration is read from --config (YAML) and QUERYGATE_* environment
variables, e.g. QUERYGATE_STORE_DSN.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with cli.ExitCode.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "override catalog.path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override store.dsn")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig returns a copy of the process configuration with the global
// flag overrides applied.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	cfg := *config.MustGetConfig()

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if dbPath != "" {
		cfg.Store.DSN = dbPath
	}
	return &cfg, nil
}

// commandLogger is the logger for one-shot commands: warnings and errors
// on w, or everything with --verbose.
func commandLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	lc := cfg.Telemetry.Logging
	lc.Format = "text"
	lc.Level = "warn"
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.FromConfig(lc, w)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		Driver:       cfg.Store.Driver,
		DSN:          cfg.Store.DSN,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		BusyTimeout:  cfg.Store.BusyTimeout,
		WALMode:      cfg.Store.WALMode,
	}
}

func paramLimits(cfg *config.Config) params.Limits {
	return params.Limits{
		MaxFilterLength:  cfg.Limits.MaxFilterLength,
		MaxSelectLength:  cfg.Limits.MaxSelectLength,
		MaxOrderByLength: cfg.Limits.MaxOrderByLength,
	}
}

// newGateway builds a gateway over resolver for one-shot commands.
// executor may be nil.
func newGateway(cfg *config.Config, resolver gateway.Resolver, executor gateway.Executor, logger *logging.Logger) *gateway.Gateway {
	return gateway.New(resolver, executor,
		gateway.WithLimits(paramLimits(cfg)),
		gateway.WithMaxURILength(cfg.Limits.MaxURILength),
		gateway.WithLogger(logger),
	)
}

func loadCatalog(cfg *config.Config) (*catalog.Snapshot, error) {
	snap, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, cli.NewCommandError("catalog", err)
	}
	return snap, nil
}
