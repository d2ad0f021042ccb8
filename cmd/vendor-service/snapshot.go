package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"vendor-service/internal/service"
	"vendor-service/pkg/database"
	"vendor-service/pkg/logger"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record every vendor's current metrics in the performance history",
	Long:  "Appends one historical performance row per vendor. Meant to be run periodically, e.g. from cron.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := database.InitDB(cfg); err != nil {
			return eris.Wrap(err, "snapshot: init database")
		}
		if sqlDB, err := database.GetDB().DB(); err == nil {
			defer sqlDB.Close()
		}

		ctx = logger.WithLogger(ctx, logger.GetLogger())
		written, err := service.NewVendorService(database.GetDB()).Snapshot(ctx)
		if err != nil {
			return eris.Wrap(err, "snapshot")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "recorded %d vendor snapshots\n", written)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
