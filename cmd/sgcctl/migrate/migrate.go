package migratecmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sgc-backend/internal/config"
	"sgc-backend/internal/database"
	"sgc-backend/internal/logger"
)

const migrateLongDesc string = `Apply pending SQL migrations to the site database.

Migrations are numbered .sql files (001_initial_schema.sql, ...) and each is
applied once, in its own transaction.

Examples:
  sgcctl migrate
  sgcctl migrate --dir ./migrations --database-url postgres://localhost/sgc`

const migrateShortDesc string = "Apply database migrations"

type migrateCommander struct {
	dir         string
	databaseURL string
}

func NewMigrateCmd() *cobra.Command {
	cmder := &migrateCommander{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: migrateShortDesc,
		Long:  migrateLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.dir, "dir", "migrations", "Directory holding numbered .sql files")
	cmd.Flags().StringVar(&cmder.databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")

	return cmd
}

func (c *migrateCommander) run(cmd *cobra.Command) error {
	cfg := config.LoadCLI()

	dbURL := c.databaseURL
	if dbURL == "" {
		dbURL = cfg.DatabaseURL
	}
	if dbURL == "" {
		return errors.New("no database URL: set DATABASE_URL or pass --database-url")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()

	pool, err := database.NewPostgresPool(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer pool.Close()

	applied, err := database.RunMigrations(ctx, pool, c.dir, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) from %s\n", applied, c.dir)
	return nil
}
