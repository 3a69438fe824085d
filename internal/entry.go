// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/amqp"
	"github.com/starford/tablero/internal/api"
	"github.com/starford/tablero/internal/dashboard"
	"github.com/starford/tablero/internal/importwatch"
	"github.com/starford/tablero/internal/mcpserver"
	"github.com/starford/tablero/internal/recordservice"
	"github.com/starford/tablero/internal/snapshot"
	"github.com/starford/tablero/internal/sse"
	"github.com/starford/tablero/internal/storage"
	"github.com/starford/tablero/internal/store"
)

// components are the services shared by every command.
type components struct {
	cfg       *Config
	logger    *slog.Logger
	db        *store.DB
	records   *recordservice.Service
	dashboard *dashboard.Service
	scheduler *dashboard.Scheduler
}

// setup applies opts, installs the logger and opens the record store.
// The caller must close c.db.
func setup(opts []Option) (*components, error) {
	app := &application{logOutput: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	engine := activity.New(
		activity.WithLocation(loc),
		activity.WithRecentWindow(cfg.Dashboard.RecentWindowDays),
		activity.WithSampleSize(cfg.Dashboard.RecentSampleSize),
	)
	dash := dashboard.NewService(db, engine, cfg.Dashboard.UpcomingDays, logger)
	scheduler := dashboard.NewScheduler(dash, cfg.Dashboard.RefreshInterval, logger)
	records := recordservice.NewService(db,
		recordservice.WithNotifier(scheduler),
		recordservice.WithLocation(loc),
	)

	return &components{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		records:   records,
		dashboard: dash,
		scheduler: scheduler,
	}, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	c, err := setup(opts)
	if err != nil {
		return err
	}
	defer c.db.Close()

	cfg, logger := c.cfg, c.logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("timezone", cfg.Dashboard.Timezone),
		slog.Duration("refresh_interval", cfg.Dashboard.RefreshInterval),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if cfg.Dashboard.SeedExamples {
		n, err := c.records.SeedExamples(ctx)
		if err != nil {
			logger.Warn("seeding examples failed", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Info("Seeded example records", slog.Int("count", n))
		}
	}

	// SSE broker: record changes as they happen, refreshed views throttled.
	broker := sse.NewBroker(cfg.Dashboard.SSEThrottle)
	defer broker.Close()
	c.scheduler.AddListener(broker.PublishChange)

	sessions := dashboard.NewSessions(time.Now)
	defer sessions.Close()

	c.scheduler.Subscribe(func(v *dashboard.View) {
		broker.PublishRefresh(map[string]any{
			"generatedAt": v.GeneratedAt,
			"totals":      v.Totals,
		})
		if cfg.Dashboard.SessionIdle > 0 {
			if n := sessions.Prune(cfg.Dashboard.SessionIdle); n > 0 {
				logger.Debug("pruned idle sessions", slog.Int("count", n))
			}
		}
	})

	var publisher *amqp.Publisher
	if cfg.AMQP.Enabled() {
		publisher, err = amqp.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			return fmt.Errorf("init amqp: %w", err)
		}
		defer publisher.Close()
		c.scheduler.AddListener(publisher.Listen)
	}

	apiRouter := api.NewRouter(api.Deps{
		Records:     c.records,
		Dashboard:   c.dashboard,
		Sessions:    sessions,
		Scheduler:   c.scheduler,
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		Events:      broker,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if c.scheduler.Latest() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"starting"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Refresh loop.
	g.Go(func() error {
		return c.scheduler.Run(gCtx)
	})

	if publisher != nil {
		g.Go(func() error {
			return publisher.Run(gCtx)
		})
	}

	// Import drop folder.
	if cfg.Import.Enabled {
		files, err := storage.NewFS(cfg.Import.Dir)
		if err != nil {
			return fmt.Errorf("init import dir: %w", err)
		}
		scanner := importwatch.NewScanner(c.records, files, logger,
			importwatch.WithSettle(cfg.Import.Settle),
			importwatch.WithCallback(func(name string, res *recordservice.ImportResult) {
				logger.Info("Imported export file",
					slog.String("file", name),
					slog.Int("records", res.Records),
					slog.Any("collections", res.Collections))
			}))
		g.Go(func() error {
			return scanner.Watch(gCtx)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup context once the HTTP server has stopped,
// so the background loops exit too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	c, err := setup(opts)
	if err != nil {
		return err
	}
	defer c.db.Close()

	sessions := dashboard.NewSessions(time.Now)
	defer sessions.Close()

	c.logger.Info("MCP server starting", slog.String("sqlite_path", c.cfg.SQLite.Path))
	srv := mcpserver.New(c.records, c.dashboard, sessions.Get(dashboard.DefaultSessionID))
	return srv.ServeStdio()
}

// Export writes an export document of every collection to path, or to a
// timestamped file in the working directory when path is empty. It returns
// the written path.
func Export(ctx context.Context, path string, opts ...Option) (string, error) {
	c, err := setup(opts)
	if err != nil {
		return "", err
	}
	defer c.db.Close()

	snap, err := c.records.Export(ctx)
	if err != nil {
		return "", err
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	if path == "" {
		path = snapshot.FileName(time.Now())
	}
	dest, err := storage.NewFS(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("open export dir: %w", err)
	}
	if err := dest.Write(filepath.Base(path), data); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	c.logger.Info("Exported records",
		slog.String("file", path),
		slog.Int("records", snap.Count()))
	return path, nil
}

// Import applies the export document at path.
func Import(ctx context.Context, path string, opts ...Option) (*recordservice.ImportResult, error) {
	c, err := setup(opts)
	if err != nil {
		return nil, err
	}
	defer c.db.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	res, err := c.records.Import(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	c.logger.Info("Imported records",
		slog.String("file", path),
		slog.Int("records", res.Records),
		slog.Any("collections", res.Collections))
	return res, nil
}
