package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resumeiq/internal/shared/config"
	"resumeiq/internal/shared/storage/db"
)

var (
	migrateStatus bool
	migrateDown   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Print migration status instead of migrating")
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back the most recent migration")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migrateStatus && migrateDown {
		return fmt.Errorf("--status and --down are mutually exclusive")
	}
	cfg := config.Load()
	ctx := cmd.Context()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	switch {
	case migrateStatus:
		return db.MigrationStatus(ctx, sqlDB)
	case migrateDown:
		return db.RollbackMigration(ctx, sqlDB)
	default:
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	}
}
