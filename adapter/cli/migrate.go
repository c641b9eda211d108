package cli

import (
	"fmt"

	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	_ "github.com/emZubair/Calendy/internal/shared/infrastructure/database/postgres" // driver registration
	_ "github.com/emZubair/Calendy/internal/shared/infrastructure/database/sqlite"   // driver registration
	"github.com/emZubair/Calendy/internal/shared/infrastructure/migrations"
	"github.com/emZubair/Calendy/pkg/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := buildLogger(cfg)
	SetLogger(log)

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if err := migrations.Run(ctx, conn); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("migrations applied", "driver", conn.Driver().String())
	return nil
}
