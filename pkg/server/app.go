// Package server runs long-lived services until the process is interrupted.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	applogger "InsideX/pkg/logger"
)

// Service is anything the app starts and later stops: HTTP servers,
// schedulers.
type Service interface {
	Start() error
	Stop(ctx context.Context) error
}

// App encapsulates the application lifecycle.
type App struct {
	name            string
	log             *applogger.Logger
	services        []Service
	closers         []io.Closer
	shutdownTimeout time.Duration
}

// Option configures App.
type Option func(*App)

// WithService adds a service. Services start in order and stop in reverse.
func WithService(s Service) Option {
	return func(a *App) {
		if s != nil {
			a.services = append(a.services, s)
		}
	}
}

// WithCloser adds a resource closed after every service stopped.
func WithCloser(c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, c)
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) { a.shutdownTimeout = d }
}

func New(name string, log *applogger.Logger, opts ...Option) *App {
	if log == nil {
		log = applogger.Nop()
	}
	a := &App{name: name, log: log, shutdownTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every service and blocks until ctx is done or SIGINT/SIGTERM
// arrives, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i, s := range a.services {
		if err := s.Start(); err != nil {
			a.stopServices(a.services[:i])
			a.closeAll()
			return fmt.Errorf("start %s: %w", a.name, err)
		}
	}
	a.log.Info("app started", applogger.String("app", a.name), applogger.Int("services", len(a.services)))

	<-ctx.Done()
	a.log.Info("shutdown signal received", applogger.String("app", a.name))
	return a.Shutdown()
}

// Shutdown stops services in reverse order and closes resources.
func (a *App) Shutdown() error {
	err := a.stopServices(a.services)
	if cerr := a.closeAll(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	a.log.Info("shutdown complete", applogger.String("app", a.name))
	return err
}

func (a *App) stopServices(services []Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(ctx); err != nil {
			a.log.Error("service stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
