package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/querygate/pkg/catalog"
	"mercator-hq/querygate/pkg/cli"
	"mercator-hq/querygate/pkg/config"
	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/server"
	"mercator-hq/querygate/pkg/store"
	"mercator-hq/querygate/pkg/telemetry/health"
	"mercator-hq/querygate/pkg/telemetry/logging"
	"mercator-hq/querygate/pkg/telemetry/metrics"
	"mercator-hq/querygate/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the querygate HTTP server",
	Long: `Start the querygate HTTP server with the specified configuration.

The server resolves resource URIs against the catalog, validates their
query parameters and runs the resulting SELECT against the store.

The catalog is reloaded on SIGHUP, and on every change to the file when
catalog.watch is set. A catalog that fails to load keeps the previous one
in service.

Examples:
  # Start with defaults and QUERYGATE_* environment overrides
  querygate serve

  # Start with a config file
  querygate serve --config /etc/querygate/config.yaml

  # Override listen address and watch the catalog
  querygate serve --listen 0.0.0.0:8080 --watch

  # Validate config and catalog without starting the server
  querygate serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload the catalog when the file changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and catalog without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.watch {
		cfg.Catalog.Watch = true
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("flags", err.Error())
	}

	logger, err := logging.FromConfig(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	registry, err := catalog.Open(cfg.Catalog.Path, logger.Slog())
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	if serveFlags.dryRun {
		fmt.Printf("✓ Configuration valid\n✓ Catalog valid (%d resources)\n", registry.Snapshot().Len())
		return nil
	}

	printBanner(cfg, registry.Snapshot())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.OTLP.Timeout)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	collector.SetCatalogResources(registry.Snapshot().Len())
	registry.OnReload(collector.RecordCatalogReload)
	registry.OnSwap(func(snap *catalog.Snapshot) {
		collector.SetCatalogResources(snap.Len())
	})

	st, err := store.Open(storeConfig(cfg), logger.Slog())
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer st.Close()
	fmt.Printf("✓ Store opened (%s)\n", st.Driver())

	checker := health.New(Version, health.DefaultCheckTimeout)
	checker.Register("store", health.PingCheck(st))
	checker.Detail("catalog_version", func() string { return registry.Snapshot().Version() })
	checker.Detail("catalog_loaded_at", func() string {
		return registry.Snapshot().LoadedAt().UTC().Format(time.RFC3339)
	})

	gw := gateway.New(registry, st,
		gateway.WithLimits(paramLimits(cfg)),
		gateway.WithMaxURILength(cfg.Limits.MaxURILength),
		gateway.WithMetrics(collector),
		gateway.WithTracer(tracer.Tracer()),
		gateway.WithLogger(logger),
	)

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithHealth(checker),
	}
	if cfg.Telemetry.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(cfg.Telemetry.Metrics.Path, collector.Handler()))
	}
	if tracer.Enabled() {
		opts = append(opts, server.WithTracing())
	}
	srv := server.NewServer(&cfg.Server, gw, opts...)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if cfg.Catalog.Watch {
		watcher, err := catalog.NewWatcher(registry, cfg.Catalog.Debounce, logger.Slog())
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		defer watcher.Stop()
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("catalog watcher failed", "error", err)
			}
		}()
		fmt.Printf("✓ Watching catalog %s\n", cfg.Catalog.Path)
	}

	hup := cli.ReloadSignal()
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("SIGHUP received, reloading catalog")
				// The registry logs and counts failures.
				_ = registry.Reload()
			}
		}
	}()

	scheme := "http"
	if cfg.Server.TLS.Enabled {
		scheme = "https"
	}
	base := scheme + "://" + cfg.Server.ListenAddress
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Read endpoint: %s%s?uri=...\n", base, cfg.Server.ReadPath)
	fmt.Printf("✓ Health endpoint: %s%s\n", base, cfg.Server.HealthPath)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: %s%s\n", base, cfg.Telemetry.Metrics.Path)
	}
	if rl := cfg.Server.RateLimit; rl.RequestsPerSecond > 0 {
		fmt.Printf("✓ Rate limit: %g req/s per client (burst %d)\n", rl.RequestsPerSecond, rl.Burst)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	fmt.Println("✓ Server stopped")
	return nil
}

func printBanner(cfg *config.Config, snap *catalog.Snapshot) {
	fmt.Printf("querygate v%s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	}
	fmt.Println("✓ Configuration loaded")
	fmt.Printf("✓ Catalog loaded from %s (%d resources, version %s)\n", cfg.Catalog.Path, snap.Len(), snap.Version())
}
