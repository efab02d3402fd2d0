package db

import (
	"fmt"

	"nathanbeddoewebdev/actionrunner/internal/config"
	"nathanbeddoewebdev/actionrunner/internal/dbexec"
	"nathanbeddoewebdev/actionrunner/internal/logging"

	"github.com/spf13/cobra"
)

// NewCommand returns the "db" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Run queries and migrations against the project database",
		Long: "Work with the SQLite project database that confirmed database actions\n" +
			"run against. The database is taken from --database, then the\n" +
			"database-path setting, then the default location.",
	}

	cmd.PersistentFlags().String("database", "", "SQLite database file")

	cmd.AddCommand(QueryCommand())
	cmd.AddCommand(MigrateCommand())

	return cmd
}

// openExecutor opens the database selected by --database or the config.
func openExecutor(cmd *cobra.Command) (*dbexec.Executor, error) {
	path, _ := cmd.Flags().GetString("database")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		path = cfg.DatabasePath
	}

	exec, err := dbexec.Open(path, logging.FromContext(cmd.Context()))
	if err != nil {
		return nil, fmt.Errorf("failed to open project database: %w", err)
	}
	return exec, nil
}
