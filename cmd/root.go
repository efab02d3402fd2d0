package cmd

import (
	"os"

	cfgcmd "nathanbeddoewebdev/actionrunner/cmd/commands/config"
	"nathanbeddoewebdev/actionrunner/cmd/commands/db"
	"nathanbeddoewebdev/actionrunner/cmd/commands/history"
	"nathanbeddoewebdev/actionrunner/cmd/commands/journal"
	"nathanbeddoewebdev/actionrunner/cmd/commands/run"
	"nathanbeddoewebdev/actionrunner/internal/config"
	"nathanbeddoewebdev/actionrunner/internal/logging"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var logger *logging.Logger

	var cmd = &cobra.Command{
		Use:   "actionrunner",
		Short: "Run shell, file, build and database actions in strict order",
		Long: `actionrunner executes a list of actions against a local sandbox directory.
Actions run one at a time in the order given: shell commands, file writes,
builds, long-running dev servers and database changes. A failing action
never stops the ones after it.

Quick start:
  actionrunner run actions.yaml              # run every action in the file
  actionrunner run actions.yaml --yes        # also run database queries unprompted
  actionrunner history show src/index.ts     # show a file's recorded history
  actionrunner db migrate                    # apply supabase/migrations
  actionrunner journal list                  # outcomes of past runs`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level, _ := cmd.Flags().GetString("log-level")
			if !cmd.Flags().Changed("log-level") {
				level = cfg.LogLevelOrDefault()
			}
			file, _ := cmd.Flags().GetString("log-file")
			if !cmd.Flags().Changed("log-file") {
				file = cfg.LogFile
			}

			logger, err = logging.New(logging.Options{
				Level:   level,
				File:    file,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			cmd.SetContext(logging.NewContext(cmd.Context(), logger.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logger == nil {
				return nil
			}
			return logger.Close()
		},
	}

	cmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Console log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-file", "", "Write a rotating debug log to this file")

	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(db.NewCommand())
	cmd.AddCommand(history.NewCommand())
	cmd.AddCommand(journal.NewCommand())
	cmd.AddCommand(run.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
