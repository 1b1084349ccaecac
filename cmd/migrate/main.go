package main

// Manage the Postgres preferences schema:
//   go run ./cmd/migrate up|status|down

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"userprefs-backend/internal/shared/config"
	"userprefs-backend/internal/shared/storage/db"
	"userprefs-backend/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply or inspect the user_preferences schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withDB(func(cmd *cobra.Command, sqlDB *sql.DB) error {
		return db.RunMigrations(cmd.Context(), sqlDB)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print applied and pending migrations",
	RunE: withDB(func(cmd *cobra.Command, sqlDB *sql.DB) error {
		return db.MigrationStatus(cmd.Context(), sqlDB)
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: withDB(func(cmd *cobra.Command, sqlDB *sql.DB) error {
		return db.RollbackMigration(cmd.Context(), sqlDB)
	}),
}

func init() {
	rootCmd.AddCommand(upCmd, statusCmd, downCmd)
}

func withDB(fn func(cmd *cobra.Command, sqlDB *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		telemetry.Setup(os.Stdout, cfg.Env, cfg.LogLevel)
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}

		opts, err := db.OptionsFromEnv(db.DefaultMigrateOptions())
		if err != nil {
			return err
		}
		sqlDB, err := db.Connect(cmd.Context(), cfg.DatabaseURL, opts)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer sqlDB.Close()

		if err := fn(cmd, sqlDB); err != nil {
			return fmt.Errorf("migrate %s: %w", cmd.Name(), err)
		}
		telemetry.Info("migrate.done", map[string]any{"command": cmd.Name()})
		return nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
