package db

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/actionrunner/internal/dbexec"

	"github.com/spf13/cobra"
)

// QueryCommand returns the "db query" command.
func QueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Execute a SQL statement",
		Long: `Execute a single SQL statement against the project database.

Statements that return rows print them as a table; everything else
prints the number of rows affected.

Examples:
  actionrunner db query "SELECT * FROM todos"
  actionrunner db query "DELETE FROM todos WHERE done = 1"`,
		Args:         cobra.ExactArgs(1),
		RunE:         runQuery,
		SilenceUsage: true,
	}

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	exec, err := openExecutor(cmd)
	if err != nil {
		return err
	}
	defer exec.Close()

	res, err := exec.Exec(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printResult(cmd, res)
	return nil
}

func printResult(cmd *cobra.Command, res *dbexec.Result) {
	if len(res.Columns) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", res.RowsAffected)
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "(%d row(s))\n", len(res.Rows))
}
