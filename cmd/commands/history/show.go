package history

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/actionrunner/internal/config"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/logging"
	"nathanbeddoewebdev/actionrunner/internal/runner"
	"nathanbeddoewebdev/actionrunner/internal/sandbox"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ShowCommand returns the "history show" command.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Show the recorded history of a file",
		Long: `Show the history recorded for a sandbox file.

The path may be absolute within the sandbox workdir or relative to it.

Examples:
  actionrunner history show src/index.ts
  actionrunner history show /home/project/src/index.ts -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().String("root", ".", "Directory backing the sandbox workdir")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	output, _ := cmd.Flags().GetString("output")
	logger := logging.FromContext(cmd.Context())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	host, err := sandbox.NewLocalHost(root, cfg.WorkdirOrDefault())
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Options{
		Host:   host,
		Shell:  sandbox.NewLocalShell(host.Root(), logger),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	h, err := r.GetFileHistory(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(h)
	case "table":
		printHistory(cmd, args[0], h)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (valid: table, json, yaml)", output)
	}
}

// printHistory prints a summary of h followed by one row per version.
func printHistory(cmd *cobra.Command, path string, h *domain.FileHistory) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "  File:\t%s\n", path)
	if h.ChangeSource != "" {
		fmt.Fprintf(w, "  Source:\t%s\n", h.ChangeSource)
	}
	if h.LastModified != 0 {
		fmt.Fprintf(w, "  Modified:\t%s\n", formatMillis(h.LastModified))
	}
	fmt.Fprintf(w, "  Original:\t%d bytes\n", len(h.OriginalContent))

	added, removed := 0, 0
	for _, c := range h.Changes {
		switch {
		case c.Added:
			added += c.Count
		case c.Removed:
			removed += c.Count
		}
	}
	fmt.Fprintf(w, "  Changes:\t+%d -%d lines\n", added, removed)
	w.Flush()

	if len(h.Versions) == 0 {
		return
	}

	fmt.Fprintln(cmd.OutOrStdout())
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "VERSION\tTIMESTAMP\tSIZE")
	fmt.Fprintln(w, "-------\t---------\t----")
	for i, v := range h.Versions {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, formatMillis(v.Timestamp), len(v.Content))
	}
	w.Flush()
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05 UTC")
}
