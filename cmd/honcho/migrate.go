package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

An existing database is backed up next to itself before any migration is
applied, unless --no-backup is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetBool("status")
			noBackup, _ := cmd.Flags().GetBool("no-backup")
			return a.runMigrate(cmd, status, !noBackup)
		},
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")
	cmd.Flags().Bool("no-backup", false, "Skip the pre-migration backup")

	return cmd
}

func (a *app) runMigrate(cmd *cobra.Command, statusOnly, backup bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	dbPath := a.cfg.Database.Path

	_, statErr := os.Stat(dbPath)
	existed := statErr == nil

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if statusOnly {
		fmt.Fprintln(out, cli.FormatTitle("Database Migration Status"))
		fmt.Fprintf(out, "Database: %s\n", dbPath)
		fmt.Fprintf(out, "Current version: %d\n", current)
		fmt.Fprintf(out, "Latest version: %d\n", storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatWarning("Migrations pending. Run 'honcho migrate'."))
		}
		return nil
	}

	if current >= storage.ExpectedSchemaVersion {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Database is up to date (version %d)", current)))
		return nil
	}

	if backup && existed && current > 0 {
		dest := fmt.Sprintf("%s.backup-%s", dbPath, time.Now().Format("20060102-150405"))
		if err := store.Backup(ctx, dest); err != nil {
			return fmt.Errorf("failed to back up database before migrating: %w", err)
		}
		fmt.Fprintln(out, cli.FormatInfo("Backed up database to "+dest))
	}

	slog.Info("Running database migrations", "database", dbPath, "from", current, "to", storage.ExpectedSchemaVersion)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully!"))
	return nil
}
