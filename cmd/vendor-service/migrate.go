package main

import (
	"vendor-service/pkg/database"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		conn, err := database.Open(&cfg.DB)
		if err != nil {
			return eris.Wrap(err, "migrate: open database")
		}
		if sqlDB, err := conn.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Migrate(conn); err != nil {
			return eris.Wrap(err, "migrate")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
