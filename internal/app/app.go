package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	backend "github.com/redis/go-redis/v9"
	"github.com/zzalscv2/athena-atlas-sub040/internal/config"
	"github.com/zzalscv2/athena-atlas-sub040/internal/ctxlog"
	"github.com/zzalscv2/athena-atlas-sub040/internal/fetcher"
	"github.com/zzalscv2/athena-atlas-sub040/internal/hcl_adapter"
	"github.com/zzalscv2/athena-atlas-sub040/internal/metrics"
	"github.com/zzalscv2/athena-atlas-sub040/internal/orchestrator"
	"github.com/zzalscv2/athena-atlas-sub040/internal/registry"
	"github.com/zzalscv2/athena-atlas-sub040/internal/schedstore"
	"github.com/zzalscv2/athena-atlas-sub040/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logW   io.Writer
	logger *slog.Logger
	ctx    context.Context
	config *Config

	loader   config.Loader
	modules  []registry.Module
	registry *registry.Registry
	store    schedstore.Store

	metrics    *metrics.Recorder
	orch       *orchestrator.Orchestrator
	httpServer *http.Server
}

// Option customises an App.
type Option func(*App)

// WithLogWriter sends log output to w instead of the output writer.
func WithLogWriter(w io.Writer) Option {
	return func(a *App) { a.logW = w }
}

// WithLoader replaces the default HCL+YAML menu loader.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithModules replaces the compiled-in algorithm modules.
func WithModules(modules ...registry.Module) Option {
	return func(a *App) { a.modules = modules }
}

// WithStore replaces the schedule store chosen from the configuration.
func WithStore(s schedstore.Store) Option {
	return func(a *App) { a.store = s }
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger and registry; nothing is loaded until one of the
// operations runs.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{outW: outW, logW: outW, config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, a.logW)
	a.ctx = ctxlog.WithLogger(context.Background(), a.logger)
	a.logger.Debug("Logger configured successfully.")

	if a.loader == nil {
		a.loader = config.MultiLoader{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
	}
	if len(a.modules) == 0 {
		a.modules = coreModules
	}
	a.registry = registry.New(a.modules...)
	a.logger.Debug("All algorithm modules registered.", "count", len(a.modules))

	if a.store == nil {
		if cfg.RedisAddr != "" {
			var sopts []schedstore.Option
			if cfg.RedisPrefix != "" {
				sopts = append(sopts, schedstore.WithPrefix(cfg.RedisPrefix))
			}
			a.store = schedstore.NewRedis(backend.NewClient(&backend.Options{Addr: cfg.RedisAddr}), sopts...)
			a.logger.Debug("Using redis schedule store.", "addr", cfg.RedisAddr)
		} else {
			a.store = schedstore.NewMemory()
		}
	}
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Orchestrator returns the orchestrator built by Load, or nil before that.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// Metrics returns the recorder built by Load, or nil before that.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// Load reads the trigger menu and builds the execution sequence. Only the
// first call does any work.
func (a *App) Load(ctx context.Context) error {
	if a.orch != nil {
		return nil
	}
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	logger.Debug("Loading trigger menu...", "menu_path", a.config.MenuPath)
	menu, err := a.loader.Load(ctx, a.config.MenuPath)
	if err != nil {
		return fmt.Errorf("failed to load trigger menu: %w", err)
	}

	res := fetcher.Fetch(ctx, menu)
	if err := res.Err(); err != nil {
		return err
	}
	descs := res.Descriptors()
	logger.Info("Trigger menu loaded.", "algorithms", len(descs))

	if err := a.registry.Validate(ctx, descs); err != nil {
		return err
	}
	logger.Debug("Registry validation passed.")

	a.metrics = metrics.NewRecorder(descs)
	opts := []orchestrator.Option{
		orchestrator.WithBoards(a.config.Boards),
		orchestrator.WithObserver(a.metrics),
	}
	if a.config.ParallelBoards {
		opts = append(opts, orchestrator.WithParallelBoards())
	}
	orch, err := orchestrator.New(ctx, descs, a.registry, opts...)
	if err != nil {
		return err
	}
	a.orch = orch

	return a.checkSchedule(ctx)
}

// checkSchedule compares the new execution order with the one stored for the
// same descriptor set, then stores the new one.
func (a *App) checkSchedule(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	sched := schedstore.New(a.orch.Descriptors(), a.orch.Order(), a.orch.Graph().Text())

	prev, err := a.store.Load(ctx, sched.Digest)
	switch {
	case errors.Is(err, schedstore.ErrNotFound):
		logger.Debug("No stored schedule for this menu.", "digest", sched.Digest)
	case err != nil:
		return fmt.Errorf("failed to load stored schedule: %w", err)
	case prev.SameOrder(sched):
		logger.Info("Execution order matches the stored schedule.", "digest", sched.Digest, "stored_at", prev.CreatedAt)
	default:
		logger.Warn("Execution order differs from the stored schedule.", "digest", sched.Digest, "stored_at", prev.CreatedAt)
	}

	if err := a.store.Save(ctx, sched); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// Close releases the health check server and the schedule store.
func (a *App) Close() error {
	var errs []error
	if err := a.closeHealthCheckServer(); err != nil {
		errs = append(errs, err)
	}
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close schedule store: %w", err))
		}
	}
	return errors.Join(errs...)
}
