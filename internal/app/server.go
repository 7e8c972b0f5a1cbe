package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Run serves HTTP until ctx ends, the process gets SIGINT or SIGTERM, or
// the listener fails. It then shuts everything down and returns the
// listener error, if any.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)
		err := a.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	var err error
	select {
	case <-ctx.Done():
		slog.Info("shutdown requested")
	case err = <-serveErr:
		slog.Error("http server stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.GetDuration("server.shutdown_timeout"))
	defer cancel()
	a.shutdown(shutdownCtx)

	return err
}

// shutdown stops intake first, lets running batches finish, then releases
// resources in reverse registration order.
func (a *App) shutdown(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to stop http server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for running batches")
	waited := make(chan error, 1)
	go func() { waited <- a.goroutine.Wait() }()
	select {
	case err := <-waited:
		if err != nil {
			slog.ErrorContext(ctx, "batches finished with errors", "error", err)
		}
	case <-ctx.Done():
		slog.ErrorContext(ctx, "gave up waiting for batches", "error", ctx.Err())
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resource", "name", c.name, "error", err)
		}
	}

	a.cancel()
	slog.Info("application stopped")
}
