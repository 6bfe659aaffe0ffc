// Package bootstrap runs a service through its lifecycle: start
// infrastructure components, configure the business layer, start what that
// registered, wait for a shutdown signal, then stop everything in reverse.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huzzdev/sincrolab-backend/component"
	"github.com/huzzdev/sincrolab-backend/logger"
	"github.com/huzzdev/sincrolab-backend/version"
)

const defaultGracefulTimeout = 15 * time.Second

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// App owns a service's components and lifecycle hooks.
type App[C Config] struct {
	Name       string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	onConfigure     []func(ctx context.Context, app *App[C]) error
	onReady         []Hook
	onStop          []Hook
}

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
}

// WithLogger sets the application logger instead of building one from the
// config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// NewApp applies defaults to cfg, validates it and sets up the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	o := appOptions{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(o.logger)
	}

	return &App[C]{
		Name:            base.Name,
		Cfg:             cfg,
		Components:      component.NewRegistry(o.logger),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}, nil
}

// RegisterComponent adds a component to the registry. Components
// registered from an OnConfigure callback are started right after it.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs once the components registered
// before Run have started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// OnReady registers hooks that run once every component is up.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop registers hooks that run before components are stopped.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts the application and blocks until SIGINT, SIGTERM or ctx is
// done, then shuts down gracefully. A startup failure still stops whatever
// had started.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.Shutdown(); stopErr != nil {
			a.Logger.Error("Shutdown after failed startup", logger.ErrorFields("shutdown", stopErr))
		}
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.Shutdown()
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": version.Get().String(),
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start configured components: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	for i, h := range a.onReady {
		if err := h(ctx); err != nil {
			return fmt.Errorf("onReady hook %d failed: %w", i, err)
		}
	}

	a.Logger.Info("Startup complete", logger.DurationFields("startup", time.Since(start)))
	return nil
}

// WaitForSignal blocks until a shutdown signal arrives or ctx is done.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the stop hooks and stops components within the graceful
// timeout.
func (a *App[C]) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	for i, h := range a.onStop {
		if err := h(ctx); err != nil {
			a.Logger.Error("OnStop hook error", logger.Fields("hook", i, logger.FieldError, err.Error()))
			shutdownErr = err
		}
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
