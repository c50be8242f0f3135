package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hookdom/internal/config"
	"github.com/vango-dev/hookdom/internal/errors"
	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/demo"
	"github.com/vango-dev/hookdom/pkg/middleware"
	"github.com/vango-dev/hookdom/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
		tick       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter component to websocket mirrors",
		Long: `Start the HTTP server. Each websocket session mounts its own counter and
receives its host mutations as binary patch frames.

Settings come from hookdom.json in the working directory, or the file
given with --config. Flags override the file.

Examples:
  hookdom serve
  hookdom serve --config deploy/hookdom.json
  hookdom serve --port 9000 --tick 250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if tick > 0 {
				cfg.Server.Tick = tick.String()
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to hookdom.json")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().DurationVar(&tick, "tick", 0, "Counter interval (default from config)")

	return cmd
}

// loadConfig reads path, or hookdom.json in the working directory when path
// is empty. A missing default file means defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if _, err := os.Stat(config.ConfigFileName); os.IsNotExist(err) {
		return config.New(), nil
	}
	return config.Load(".")
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(os.Stderr, cfg)

	sc := &server.Config{
		Address:         cfg.Address(),
		App:             func() server.App { return demo.NewCounter(0) },
		Tick:            cfg.TickInterval(),
		WriteTimeout:    cfg.WriteTimeout(),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		HookOrderCheck:  cfg.Debug.HookOrderCheck,
		Logger:          logger,
		Middleware: []component.Middleware{
			middleware.Logger(logger),
			middleware.OpenTelemetry(),
		},
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		sc.CheckOrigin = server.AllowOrigins(cfg.Server.AllowedOrigins...)
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sc.Registry = reg
		sc.MetricsNamespace = cfg.Metrics.Namespace
	}

	if path := cfg.Path(); path != "" {
		logger.Info("configuration loaded", "path", path)
	}

	srv := server.New(sc)
	if err := srv.Run(ctx); err != nil {
		return errors.FromError(err, "E141").
			WithDetail("Cannot listen on " + cfg.Address()).
			WithSuggestion("Pick another port with --port")
	}
	return nil
}
