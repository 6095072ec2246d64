package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.pilab.hu/idstore/cleanup"
	"go.pilab.hu/idstore/internal/app"
	"go.pilab.hu/idstore/internal/server"
	"go.pilab.hu/idstore/internal/telemetry"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/tracing"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the token cleanup host and the operations HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tp, err := tracing.InitTracerProvider(cfg.OtelServiceName, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				appLogger.Warn(ctx, "error shutting down tracer provider", log.Fields{"error": err.Error()})
			}
		}()

		return withApp(ctx, func(a *app.App) error {
			return serve(ctx, a)
		})
	},
}

func serve(ctx context.Context, a *app.App) error {
	if a.Config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	mp, err := telemetry.InitMeterProvider(a.Registry)
	if err != nil {
		return err
	}
	defer telemetry.Shutdown(context.Background(), mp, appLogger)

	if a.Config.TokenCleanup.Enabled {
		host, err := cleanup.NewHost(a.Cleanup, a.Config.TokenCleanup.Interval, appLogger)
		if err != nil {
			return err
		}
		host.Start(ctx)
		defer host.Stop()
	}

	srv := server.NewHTTPServer(a.Config.HTTPAddr, server.Deps{
		Store:       a.Backend,
		Cors:        a.Cors,
		Sweeper:     a.Cleanup,
		Gatherer:    a.Registry,
		Logger:      appLogger,
		ServiceName: a.Config.OtelServiceName,
	})

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info(ctx, "HTTP server listening", log.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		appLogger.Info(context.Background(), "shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
