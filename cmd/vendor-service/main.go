package main

import (
	"fmt"
	"os"

	"vendor-service/pkg/config"
	"vendor-service/pkg/jwtutil"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vendor-service",
	Short: "Vendor and purchase order performance service",
	Long:  "Tracks vendors and their purchase orders and keeps each vendor's delivery, quality, response time and fulfillment metrics up to date.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		logger.InitLogger(cfg)
		logger.GetLogger().Info("Configuration loaded", cfg.LogConfig()...)

		jwtutil.Initialize(&cfg.JWT)
		prometheus.InitMetrics(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	// serve is the default command
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
