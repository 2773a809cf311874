package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
)

// Run serves HTTP and runs the message router until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	srv := &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := app.Router.Run(app.routerCtx); err != nil {
			errCh <- fmt.Errorf("message router: %w", err)
		}
	}()

	wg := &sync.WaitGroup{}
	wg.Add(2)
	go app.GuildModule.Run(ctx, wg)
	go app.TeamModule.Run(ctx, wg)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Component stopped unexpectedly", attr.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", attr.Error(err))
	}

	if err := app.Close(); err != nil {
		logger.Error("Error during application close", attr.Error(err))
	}
	wg.Wait()
	return runErr
}
