package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// DefaultMigrationsDir is where migration actions write their files,
// relative to the sandbox root.
const DefaultMigrationsDir = "supabase/migrations"

// MigrateCommand returns the "db migrate" command.
func MigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migration files",
		Long: `Apply every .sql file in the migrations directory that has not been
applied yet, in file name order. Applied files are recorded in the
schema_migrations table.

Examples:
  actionrunner db migrate
  actionrunner db migrate --root ./app`,
		Args:         cobra.NoArgs,
		RunE:         runMigrate,
		SilenceUsage: true,
	}

	cmd.Flags().String("root", ".", "Directory backing the sandbox workdir")
	cmd.Flags().String("dir", DefaultMigrationsDir, "Migrations directory, relative to --root")

	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	dir, _ := cmd.Flags().GetString("dir")

	migrations := filepath.Join(root, filepath.FromSlash(dir))
	if _, err := os.Stat(migrations); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No migrations directory at %s\n", migrations)
			return nil
		}
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	exec, err := openExecutor(cmd)
	if err != nil {
		return err
	}
	defer exec.Close()

	applied, err := exec.Migrate(cmd.Context(), os.DirFS(migrations))
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
	}
	return nil
}
