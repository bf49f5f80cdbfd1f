package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
	"github.com/bryanwahyu/tvp-inspect/internal/infra/httpserver"
	"github.com/bryanwahyu/tvp-inspect/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, err := openGrid(ctx, cfg)
	if err != nil {
		return err
	}
	defer g.Close()

	checkers := map[string]middleware.HealthChecker{"grid": g.Checker()}
	snapshots, err := openSnapshots(ctx, cfg)
	if err != nil {
		return err
	}
	var snaps domain.SnapshotStore
	if snapshots != nil {
		snaps = snapshots
		checkers["snapshots"] = snapshots
	}

	svc, err := newService(cfg, g, snaps, logger)
	if err != nil {
		return err
	}

	if len(cfg.Auth.APIKeys) == 0 {
		logger.Warn("no API keys configured, authentication disabled")
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	go limiter.Run(ctx, 5*time.Minute, 10*time.Minute)

	handler := httpserver.NewRouter(svc, httpserver.Deps{
		Logger:   logger,
		Metrics:  middleware.NewMetrics(),
		APIKeys:  cfg.Auth.APIKeys,
		Limiter:  limiter,
		Checkers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("store", cfg.Store.Name),
			zap.String("driver", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
