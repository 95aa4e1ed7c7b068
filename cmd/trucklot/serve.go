package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/trucklot/backend/internal/interfaces/http/handler"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
	"github.com/trucklot/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			gin.SetMode(a.cfg.HTTP.Mode)
			engine, err := router.NewAPI(router.Handlers{
				Customers: handler.NewCustomerHandler(a.customers),
				Trucks:    handler.NewTruckHandler(a.trucks),
				Contracts: handler.NewContractHandler(a.contracts),
				Billing:   handler.NewBillingHandler(a.engine, a.payments, a.reports, a.cfg.Billing.PaymentsLimit),
				Health:    handler.NewHealthHandler(a.db),
			}, a.log, middleware.DefaultBodyLimit)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.HTTP.Addr(),
				Handler:           engine,
				ReadTimeout:       a.cfg.HTTP.ReadTimeout,
				ReadHeaderTimeout: a.cfg.HTTP.ReadTimeout,
				WriteTimeout:      a.cfg.HTTP.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			backups, err := a.backupScheduler()
			if err != nil {
				return err
			}
			if backups != nil {
				if err := backups.Start(ctx); err != nil {
					return err
				}
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("mode", a.cfg.HTTP.Mode))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if backups != nil {
					_ = backups.Stop(context.Background())
				}
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if backups != nil {
				if err := backups.Stop(shutdownCtx); err != nil {
					a.log.Warn("backup scheduler did not stop cleanly", zap.Error(err))
				}
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			a.log.Info("server exited gracefully")
			return nil
		},
	}
}
