package config

import (
	"nathanbeddoewebdev/actionrunner/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage actionrunner configuration",
		Long: "View and modify persistent actionrunner settings.\n\n" +
			"Configuration is stored at ~/.config/actionrunner/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
