package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cropai/cropai/pkg/cli/config"
	httpctrl "github.com/cropai/cropai/pkg/controller/http"
	"github.com/cropai/cropai/pkg/service/worker"
	"github.com/cropai/cropai/pkg/usecase"
	"github.com/cropai/cropai/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var vectorizerCfg config.Vectorizer
	var geminiCfg config.Gemini
	var slackCfg config.Slack
	var storageCfg config.Storage
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CROPAI_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, vectorizerCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts, err := vectorizerCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure vectorizer")
			}

			analysisSvc, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure crop analysis")
			}
			ucOpts = append(ucOpts, usecase.WithAnalysis(analysisSvc))
			logger.Info("Crop analysis configured", "gemini", geminiCfg)

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack")
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc, slackCfg.ChannelID()))
				logger.Info("Slack feedback notifications enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			httpOpts := authCfg.HTTPOptions()
			if authCfg.IsConfigured() {
				logger.Info("Bearer token authentication enabled")
			} else {
				logger.Warn("Authentication disabled; owner IDs are taken from requests (development only)")
			}

			imageStore, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure image storage")
			}
			if imageStore != nil {
				defer func() {
					if err := imageStore.Close(); err != nil {
						logger.Error("failed to close image storage", "error", err.Error())
					}
				}()
				httpOpts = append(httpOpts, httpctrl.WithImageStore(imageStore))
				logger.Info("Image upload enabled", "storage", storageCfg)
			}

			var reindexWorker *worker.ReindexWorker
			if interval := vectorizerCfg.ReindexInterval(); interval > 0 {
				reindexWorker = worker.NewReindexWorker(func(ctx context.Context) error {
					_, err := uc.Diagnosis.Reindex(ctx)
					return err
				}, interval)
				if err := reindexWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start reindex worker")
				}
			}

			// Create HTTP server
			httpHandler, err := httpctrl.New(uc, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr, "vectorizer", vectorizerCfg)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				// Stop reindex worker first
				if reindexWorker != nil {
					reindexWorker.Stop()
				}

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
