package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhishek622/portfolio/internal/ratelimit"
)

const shutdownTimeout = 30 * time.Second

func (app *application) serve() error {
	server := &http.Server{
		Addr:         app.Config.GetServerAddr(),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		app.Logger.Sugar().Infow("starting server", "addr", server.Addr, "env", app.Config.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	app.Logger.Sugar().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.cleanup(shutdownCtx)
	app.Logger.Sugar().Info("server stopped")
	return nil
}

// cleanup releases background work and connections once no request is in flight.
func (app *application) cleanup(ctx context.Context) {
	app.Contacts.Wait()
	if m, ok := app.Limiter.(*ratelimit.MemoryStore); ok {
		m.Close()
	}
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Sugar().Warnw("failed to close redis", "err", err)
		}
	}
	if err := app.Repository.Close(ctx); err != nil {
		app.Logger.Sugar().Warnw("failed to close store", "driver", app.Repository.Name(), "err", err)
	}
}
