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

// Start serves HTTP in the background. The returned channel is closed once
// SIGINT, SIGTERM or SIGHUP arrives.
func (a *App) Start() <-chan struct{} {
	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		err := a.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	terminated := make(chan struct{})
	go func() {
		defer stop()
		<-sigCtx.Done()
		slog.Info("termination signal received")
		close(terminated)
	}()

	return terminated
}

// Stop drains HTTP traffic first, then in-flight goroutines, then the module
// consumers, and closes the shared resources last.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	switch err := a.goroutine.WaitContext(ctx); {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		slog.WarnContext(ctx, "gave up waiting for goroutines", "running", a.goroutine.Running(), "error", err)
	case err != nil:
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	default:
		slog.InfoContext(ctx, "all goroutines have finished successfully")
	}

	if a.cancel != nil {
		a.cancel()
	}

	for _, c := range append(a.moduleClosers, a.resourceClosers...) {
		if err := c.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
