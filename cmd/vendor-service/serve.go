package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vendor-service/pkg/database"
	"vendor-service/pkg/logger"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  "Runs migrations, then serves the vendor and purchase order API until interrupted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := logger.GetLogger()
		log.Info("Starting vendor service...", zap.String("environment", cfg.Server.Env))

		if err := database.InitDB(cfg); err != nil {
			return eris.Wrap(err, "serve: init database")
		}
		log.Info("Database connection established and migrations completed",
			zap.String("driver", cfg.DB.Driver),
			zap.String("db_name", cfg.DB.DBName))

		e := newServer(cfg, database.GetDB())

		port := cfg.Server.Port
		if servePort != "" {
			port = servePort
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("Starting server", zap.String("port", port), zap.Bool("auth_enabled", cfg.JWT.Enabled))
			if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return eris.Wrap(err, "serve: start server")
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "serve: shutdown")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (overrides SERVER_PORT)")
	rootCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (overrides SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}
