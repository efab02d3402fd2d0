package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/actionrunner/internal/actionfile"
	"nathanbeddoewebdev/actionrunner/internal/actionstore"
	"nathanbeddoewebdev/actionrunner/internal/alert"
	"nathanbeddoewebdev/actionrunner/internal/config"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/journal"
	"nathanbeddoewebdev/actionrunner/internal/logging"
	"nathanbeddoewebdev/actionrunner/internal/runner"
	"nathanbeddoewebdev/actionrunner/internal/sandbox"
	"nathanbeddoewebdev/actionrunner/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommand returns the "run" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <actions-file>",
		Short: "Run the actions listed in a file",
		Long: `Run every action in a YAML or JSON actions file, one at a time and in order.

Action paths resolve against the configured sandbox workdir, which is backed
by the --root directory on disk. Database queries wait for confirmation:
an interactive prompt on a terminal, or --yes to run them unprompted.
Dev servers started by "start" actions keep running until Ctrl+C unless
--detach is set.

Examples:
  actionrunner run actions.yaml
  actionrunner run actions.json --root ./app --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRun,
		SilenceUsage: true,
	}

	cmd.Flags().String("root", ".", "Directory backing the sandbox workdir")
	cmd.Flags().Bool("yes", false, "Run database queries without asking")
	cmd.Flags().Bool("detach", false, "Stop dev servers once every action has run instead of waiting for Ctrl+C")
	cmd.Flags().String("database", "", "SQLite database for queries (defaults to the database-path setting)")
	cmd.Flags().Bool("no-journal", false, "Do not record action outcomes in the journal")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	yes, _ := cmd.Flags().GetBool("yes")
	detach, _ := cmd.Flags().GetBool("detach")
	dbPath, _ := cmd.Flags().GetString("database")
	noJournal, _ := cmd.Flags().GetBool("no-journal")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logging.FromContext(ctx)

	entries, err := actionfile.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	grace, err := cfg.StartGraceDuration()
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	host, err := sandbox.NewLocalHost(root, cfg.WorkdirOrDefault())
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	defer out.close()

	ack := &acknowledger{
		dbPath: dbPath,
		logger: logger,
		out:    out,
	}
	defer ack.close()
	switch {
	case yes:
		ack.confirm = func(domain.DatabaseAlert) (bool, error) { return true, nil }
	case term.IsTerminal(int(os.Stdin.Fd())):
		ack.confirm = tui.ConfirmQuery
	}

	r, err := runner.New(runner.Options{
		Host:  host,
		Shell: sandbox.NewLocalShell(host.Root(), logger),
		Notifier: alert.Multi{
			alert.Funcs{
				OnAction:   func(a domain.ActionAlert) { out.line(tui.RenderActionAlert(a)) },
				OnDatabase: func(a domain.DatabaseAlert) { out.line(tui.RenderDatabaseAlert(a)) },
				OnDeploy:   func(a domain.DeployAlert) { out.line(tui.RenderDeployAlert(a)) },
			},
			alert.Funcs{
				OnDatabase: func(a domain.DatabaseAlert) {
					if a.Operation == domain.OperationQuery {
						ack.handle(ctx, a)
					}
				},
			},
		},
		Logger:       logger,
		BuildCommand: cfg.BuildArgs(),
		StartGrace:   grace,
	})
	if err != nil {
		return err
	}
	ack.runner = r

	var recorder *journal.Recorder
	if !noJournal {
		repo, err := journal.Open()
		if err != nil {
			logger.Warn("journal unavailable, outcomes will not be recorded", "error", err)
		} else {
			defer repo.Close()
			recorder = journal.NewRecorder(repo, r.RunID(), logger)
			defer r.Store().Subscribe(recorder.Observe)()
		}
	}

	unsubscribe := r.Store().Subscribe(out.change)
	err = execute(ctx, r, entries, detach, out)
	unsubscribe()

	for _, state := range r.Store().List() {
		state.Abort()
	}
	if cerr := r.Close(); cerr != nil {
		logger.Error("failed to close runner", "error", cerr)
	}
	ack.wait()

	states := r.Store().List()
	if recorder != nil {
		recorder.Flush(states)
	}
	out.summary(r.RunID(), states)
	if err != nil {
		return err
	}
	if failed := countStatus(states, domain.StatusFailed); failed > 0 {
		return fmt.Errorf("%d of %d actions failed", failed, len(states))
	}
	return nil
}

// execute registers every entry, runs them in file order and then waits
// for dev servers until ctx is done.
func execute(ctx context.Context, r *runner.Runner, entries []actionfile.Entry, detach bool, out *printer) error {
	for _, e := range entries {
		r.Register(e.Data)
	}

	for _, e := range entries {
		if err := r.Run(ctx, e.Data, e.Streaming); err != nil {
			if errors.Is(err, context.Canceled) {
				out.line("Interrupted, stopping remaining actions")
				return nil
			}
			return err
		}
	}

	if detach || !hasRunningStart(r) {
		return nil
	}

	out.line("Dev server running. Press Ctrl+C to stop.")
	changed := make(chan struct{}, 1)
	unsubscribe := r.Store().Subscribe(func(actionstore.Change) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for hasRunningStart(r) {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
	return nil
}

func hasRunningStart(r *runner.Runner) bool {
	for _, state := range r.Store().List() {
		if state.Kind() == domain.KindStart && !state.Status.IsTerminal() {
			return true
		}
	}
	return false
}

func countStatus(states []domain.ActionState, code domain.StatusCode) int {
	n := 0
	for _, s := range states {
		if s.Status.Code() == code {
			n++
		}
	}
	return n
}
