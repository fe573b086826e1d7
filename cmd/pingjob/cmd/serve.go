package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/pingjob/internal/app"
	"github.com/d60-Lab/pingjob/pkg/database"
	"github.com/d60-Lab/pingjob/pkg/logger"
	"github.com/d60-Lab/pingjob/pkg/tracing"
)

func serveCmd() *cobra.Command {
	var autoMigrate bool
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := tracing.Init(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}

			w, err := app.NewWire(cfg)
			if err != nil {
				return err
			}
			defer w.Close()

			if autoMigrate {
				if err := database.AutoMigrate(w.DB); err != nil {
					return err
				}
			}

			router, err := w.Router()
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			stopBackground := w.StartBackground()
			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case serveErr = <-errCh:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http shutdown", zap.Error(err))
			}
			if err := stopBackground(shutdownCtx); err != nil {
				logger.Error("background shutdown", zap.Error(err))
			}
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Warn("tracing shutdown", zap.Error(err))
			}
			return serveErr
		},
	}
	c.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "run schema migration before serving")
	return c
}
