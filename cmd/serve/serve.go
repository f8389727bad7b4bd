// Package serve implements the HTTP service command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	api "github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/api/v2"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/datastore"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/imageresolver"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/logging"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/observability"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/storage"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command for running the HTTP service.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the image resolution HTTP service",
		Long:  "Open the metadata store, build the resolver and serve the v2 API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")
	cmd.Flags().BoolVar(&settings.Diagnostics.Enabled, "diagnostics", viper.GetBool("diagnostics.enabled"), "Enable the image diagnostics feed")
	cmd.Flags().BoolVar(&settings.Storage.Preflight.Enabled, "preflight", viper.GetBool("storage.preflight.enabled"), "Probe object storage before serving override URLs")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}

// runServer wires the service together and blocks until shutdown.
func runServer(settings *conf.Settings) error {
	logger := logging.ForService("serve")

	if err := telemetry.InitSentry(settings); err != nil {
		logger.Warn("telemetry disabled", "error", err)
	}
	defer telemetry.Flush(2 * time.Second)

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}

	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close datastore", "error", err)
		}
	}()

	storageClient := storage.NewClient(settings, metrics.Storage)

	resolver := imageresolver.NewResolver(store, imageresolver.NewMemoryCache(),
		imageresolver.NewConventions(settings), metrics.Resolver)
	resolver.SetPreflight(storageClient, settings.Storage.Preflight.Enabled)

	diagnostics := imageresolver.NewDiagnosticLog(settings.Diagnostics.Enabled, settings.Diagnostics.Capacity)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	if settings.WebServer.Debug {
		e.Use(middleware.Logger())
	}

	api.New(e, store, settings, resolver, diagnostics, storageClient, metrics)

	errChan := make(chan error, 1)
	go func() {
		addr := ":" + settings.WebServer.Port
		logger.Info("starting HTTP service",
			"addr", addr,
			"diagnostics", settings.Diagnostics.Enabled,
			"preflight", settings.Storage.Preflight.Enabled)
		errChan <- e.Start(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
