package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/actionrunner/internal/config"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"With no key, every setting is listed along with its default.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  actionrunner config get                  # list all settings\n" +
			"  actionrunner config get build-command    # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (same as the positional argument)")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	if len(args) == 1 {
		key = args[0]
	}
	key = strings.TrimSpace(key)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if key == "" {
		for _, spec := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, describe(spec, cfg))
		}
		return nil
	}

	spec := config.Lookup(key)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", key, strings.Join(config.KeyNames(), ", "))
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), describe(*spec, cfg))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

func describe(spec config.KeySpec, cfg *config.Config) string {
	if value := spec.Get(cfg); value != "" {
		return value
	}
	if spec.Default != "" {
		return fmt.Sprintf("(default %s)", spec.Default)
	}
	return "(not set)"
}
