package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/shelf/internal/shelf/store/drivers/sqlite"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(newMigrateUpCommand(ctx))
	migrateCmd.AddCommand(newMigrateDownCommand(ctx))
	migrateCmd.AddCommand(newMigrateVersionCommand(ctx))

	return migrateCmd
}

func openStore(ctx *commandContext) (*sqlite.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := sqlite.NewStore(sqlite.FileDSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", cfg.DatabaseFile, err)
	}
	return st, nil
}

func newMigrateUpCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ApplyMigrations(); err != nil {
				return err
			}
			return printVersion(cmd, st)
		},
	}
}

func newMigrateDownCommand(ctx *commandContext) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.MigrateDown(steps); err != nil {
				return err
			}
			return printVersion(cmd, st)
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	return cmd
}

func newMigrateVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			return printVersion(cmd, st)
		},
	}
}

func printVersion(cmd *cobra.Command, st *sqlite.Store) error {
	version, dirty, err := st.MigrationVersion()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case version == 0:
		fmt.Fprintln(out, "schema: empty")
	case dirty:
		fmt.Fprintf(out, "schema: version %d (dirty)\n", version)
	default:
		fmt.Fprintf(out, "schema: version %d\n", version)
	}
	return nil
}
