package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fadedpez/friendbet/internal/config"
	"github.com/fadedpez/friendbet/internal/logging"
	"github.com/fadedpez/friendbet/pkg/db"
	"github.com/fadedpez/friendbet/pkg/db/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateCreateCmd)

	migrateCmd.Flags().String("storage", config.StorageSQLite, "Database backend: sqlite or postgres")
	migrateCmd.Flags().String("db", "data/friendbet.db", "Path to the SQLite database")
	migrateCmd.Flags().String("dsn", "", "Postgres connection string (defaults to DATABASE_URL)")
	migrateCmd.Flags().String("dir", "", "Read migrations from this directory instead of the built-in schema")

	migrateCreateCmd.Flags().String("dir", "pkg/db/migrations/sql", "Directory to store migrations")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var migrateCreateCmd = &cobra.Command{
	Use:     "create DESCRIPTION",
	Short:   "Create a new, empty migration file",
	Example: `  friendbet migrate create "add bet tags"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runMigrateCreate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	storage, _ := cmd.Flags().GetString("storage")
	path, _ := cmd.Flags().GetString("db")
	dsn, _ := cmd.Flags().GetString("dsn")
	dir, _ := cmd.Flags().GetString("dir")

	dialect, target, err := migrationTarget(storage, path, dsn)
	if err != nil {
		return err
	}

	logger, err := logging.New("friendbet-migrate", "development")
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer logger.Sync()

	conn, err := db.Open(dialect, target)
	if err != nil {
		return err
	}
	defer conn.Close()

	migrator := migrations.NewMigrator(conn, dialect, logger)
	if dir != "" {
		migrator = migrator.WithSource(os.DirFS(dir))
	}

	applied, err := migrator.MigrateUp(context.Background())
	if err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	logger.Info("migrations complete", zap.String("storage", storage), zap.Int("applied", applied))
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
	return nil
}

func runMigrateCreate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")

	path, err := migrations.CreateMigration(dir, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("error creating migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", path)
	return nil
}

// migrationTarget resolves the dialect and DSN the migrate command connects to
func migrationTarget(storage, path, dsn string) (db.Dialect, string, error) {
	switch storage {
	case config.StorageSQLite:
		if path == "" {
			return "", "", fmt.Errorf("--db is required for sqlite")
		}
		return db.SQLite, path, nil
	case config.StoragePostgres:
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn == "" {
			return "", "", fmt.Errorf("--dsn or DATABASE_URL is required for postgres")
		}
		return db.Postgres, dsn, nil
	default:
		return "", "", fmt.Errorf("unknown storage type %q", storage)
	}
}
