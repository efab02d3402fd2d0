package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// RunIDEnv is the environment variable carrying the runner id into every
// shell command.
const RunIDEnv = "ACTIONRUNNER_RUN_ID"

const shellGrace = 2 * time.Second

// CommandResult is the outcome of one shell command.
type CommandResult struct {
	ExitCode int
	// Output is stdout and stderr combined with terminal escapes removed.
	Output string
}

// Shell runs commands one at a time in the sandbox.
type Shell interface {
	// Ready blocks until the shell can accept a command.
	Ready(ctx context.Context) error

	// ExecuteCommand runs command to completion. Starting a command
	// interrupts the one currently running, invoking the onAbort callback
	// it was started with. A non-zero exit is reported in the result, not
	// as an error.
	ExecuteCommand(ctx context.Context, runID, command string, onAbort func()) (*CommandResult, error)
}

// LocalShell runs commands with sh -c inside a LocalHost's root.
type LocalShell struct {
	dir    string
	logger *slog.Logger

	turn sync.Mutex // held while a command runs

	mu      sync.Mutex
	current *execution
}

type execution struct {
	once    sync.Once
	cancel  context.CancelFunc
	onAbort func()
}

func (e *execution) interrupt() {
	e.once.Do(func() {
		if e.onAbort != nil {
			e.onAbort()
		}
		e.cancel()
	})
}

// NewLocalShell returns a shell whose commands run in dir.
func NewLocalShell(dir string, logger *slog.Logger) *LocalShell {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LocalShell{dir: dir, logger: logger.With("component", "shell")}
}

// Ready reports whether sh is available.
func (s *LocalShell) Ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := exec.LookPath("sh"); err != nil {
		return fmt.Errorf("sandbox: shell not available: %w", err)
	}
	return nil
}

func (s *LocalShell) ExecuteCommand(ctx context.Context, runID, command string, onAbort func()) (*CommandResult, error) {
	s.mu.Lock()
	prev := s.current
	s.mu.Unlock()
	if prev != nil {
		s.logger.Debug("interrupting running command")
		prev.interrupt()
	}

	s.turn.Lock()
	defer s.turn.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	current := &execution{cancel: cancel, onAbort: onAbort}
	s.mu.Lock()
	s.current = current
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if s.current == current {
			s.current = nil
		}
		s.mu.Unlock()
	}()

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = s.dir
	cmd.Env = append(os.Environ(), RunIDEnv+"="+runID)
	cmd.Stdout = &output
	cmd.Stderr = &output
	configureProcessGroup(cmd, shellGrace)

	s.logger.Debug("executing command", "run_id", runID, "command", command)
	start := time.Now()

	code, err := exitStatus(cmd.Run())
	if err != nil {
		return nil, fmt.Errorf("sandbox: run %q: %w", command, err)
	}

	s.logger.Debug("command finished",
		"run_id", runID,
		"exit_code", code,
		"duration", time.Since(start),
	)

	return &CommandResult{
		ExitCode: code,
		Output:   strings.TrimRight(ansi.Strip(output.String()), "\n"),
	}, nil
}
