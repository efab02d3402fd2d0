package journal

import "github.com/spf13/cobra"

// NewCommand returns the "journal" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "View and manage the action journal",
		Long: "View the outcome of actions from past runs and prune old entries.\n\n" +
			"The journal is stored locally in ~/.config/actionrunner/journal.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
