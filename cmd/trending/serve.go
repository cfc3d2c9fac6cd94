package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mlb-trending/trending/app/routes"
	"github.com/mlb-trending/trending/internal/config"
	"github.com/mlb-trending/trending/internal/logging"
	"github.com/mlb-trending/trending/internal/telemetry"
	"github.com/mlb-trending/trending/pkg/assets"
	"github.com/mlb-trending/trending/pkg/middleware"
	"github.com/mlb-trending/trending/pkg/router"
	"github.com/mlb-trending/trending/pkg/server"
)

type serveOptions struct {
	configPath string
	port       int
	host       string
	assetsDir  string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the application shell server",
		Long: `Start the HTTP server that serves the front-end for history-based
navigation. Configuration is read from trending.json or trending.toml in
the project root, then from TRENDING_* environment variables, then from
flags.

Examples:
  trending serve
  trending serve --port=9000 --assets=./web/dist
  TRENDING_ASSETS_SOURCE=s3 TRENDING_ASSETS_S3_BUCKET=mlb-trending-web trending serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: trending.json or trending.toml in the project root)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&opts.assetsDir, "assets", "", "Serve the front-end from this directory")

	return cmd
}

// loadServeConfig loads configuration and applies flag overrides.
func loadServeConfig(opts serveOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.assetsDir != "" {
		cfg.Assets.Source = config.AssetSourceDir
		cfg.Assets.Dir = opts.assetsDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := logging.Setup(cfg.Log, cmd.ErrOrStderr())

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, cfg.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	store, err := assets.FromConfig(cfg)
	if err != nil {
		return err
	}
	manifest, err := assets.LoadManifest(ctx, store)
	if err != nil {
		logger.Warn("build manifest unreadable, fingerprinted assets get default caching", "error", err)
		manifest = assets.NewManifest()
	}

	var mw []router.Middleware
	if cfg.Metrics.Enabled {
		mw = append(mw, middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace)))
	}
	if cfg.TracingEnabled() {
		mw = append(mw, middleware.OpenTelemetry())
	}
	r := router.NewRouter(routes.Table(),
		router.WithMiddleware(mw...),
		router.WithLogger(logger.With("component", "router")),
	)

	srv := server.New(r, store, server.ConfigFrom(cfg),
		server.WithLogger(logger.With("component", "server")),
		server.WithManifest(manifest),
	)

	w := cmd.OutOrStdout()
	success(w, "Serving %s on http://%s", cfg.Name, cfg.Address())
	info(w, "assets:  %s", describeAssets(cfg))
	info(w, "routes:  %d", routes.Table().Len())
	if cfg.Metrics.Enabled {
		info(w, "metrics: %s", cfg.Metrics.Path)
	}
	if cfg.TracingEnabled() {
		info(w, "tracing: %s", cfg.Tracing.Endpoint)
	}

	return srv.Run(ctx)
}

func describeAssets(cfg *config.Config) string {
	if cfg.Assets.Source == config.AssetSourceS3 {
		return fmt.Sprintf("s3://%s/%s", cfg.Assets.S3.Bucket, cfg.Assets.S3.Prefix)
	}
	return cfg.AssetsPath()
}
