package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-fukushima/mdbatch/pkg/cli/config"
	controller "github.com/m-fukushima/mdbatch/pkg/controller/http"
	"github.com/m-fukushima/mdbatch/pkg/infra/markdown"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		convertCfg config.Convert
	)

	flags := append(serverCfg.Flags(), convertCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server with the upload UI",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting mdbatch server",
				slog.String("addr", serverCfg.Addr),
				slog.Int("concurrency", convertCfg.Concurrency),
				slog.Int("max_upload_mb", serverCfg.MaxUploadMB),
			)

			// Create use cases
			var engineOpts []markdown.Option
			if convertCfg.KeepImages {
				engineOpts = append(engineOpts, markdown.WithInlineImages())
			}
			convertUC, err := usecase.NewBatchConverter(markdown.New(engineOpts...))
			if err != nil {
				return goerr.Wrap(err, "failed to create batch converter")
			}
			store := usecase.NewStore()

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				convertUC,
				store,
				controller.WithAddr(serverCfg.Addr),
				controller.WithMaxUploadBytes(serverCfg.MaxUploadBytes()),
				controller.WithDefaultConcurrency(convertCfg.Concurrency),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
