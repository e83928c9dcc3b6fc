package main

import (
	"fmt"

	"github.com/fekuna/wlpl-service/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		appLogger := newLogger(cfg)
		defer appLogger.Sync()

		db, err := openPostgres(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.Apply(cmd.Context(), db); err != nil {
			return err
		}
		appLogger.Info("Schema applied", zap.String("db_name", cfg.Postgres.DBName), zap.Int("tables", len(migrations.Tables)))
		fmt.Fprintf(cmd.OutOrStdout(), "Applied schema (%d tables) to %s\n", len(migrations.Tables), cfg.Postgres.DBName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
