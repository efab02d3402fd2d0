package history

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect file histories recorded by file actions",
		Long: "File actions may carry a history record. It is saved next to the\n" +
			"sandbox under .history/<path> after the file is written.",
	}

	cmd.AddCommand(ShowCommand())

	return cmd
}
