package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, the runner and the sandbox.
//
//	return fmt.Errorf("runner: run %s: %w", id, domain.ErrActionNotFound)
var (
	// ErrActionNotFound indicates no action is registered under the id.
	ErrActionNotFound = errors.New("action not found")

	// ErrActionAborted indicates a status change was dropped because the
	// action had already been aborted.
	ErrActionAborted = errors.New("action aborted")

	// ErrMigrationPath indicates a migration action without a file path.
	ErrMigrationPath = errors.New("migration requires a file path")

	// ErrUnknownOperation indicates a database action with an operation
	// other than migration or query.
	ErrUnknownOperation = errors.New("unknown database operation")

	// ErrUnknownAction indicates an action kind the runner has no handler for.
	ErrUnknownAction = errors.New("unknown action kind")

	// ErrOutsideSandbox indicates a path that resolves outside the sandbox root.
	ErrOutsideSandbox = errors.New("path escapes sandbox")

	// ErrRunnerClosed indicates the runner stopped before the action ran.
	ErrRunnerClosed = errors.New("runner closed")
)

// NoOutput is recorded when a failed process produced nothing.
const NoOutput = "No Output Available"

// CommandError reports a process that exited non-zero. Header is a short
// human summary; Output is the full captured terminal output.
type CommandError struct {
	Header   string
	Output   string
	ExitCode int
}

// NewCommandError builds a CommandError, substituting NoOutput for empty output.
func NewCommandError(header, output string, exitCode int) *CommandError {
	if output == "" {
		output = NoOutput
	}
	return &CommandError{Header: header, Output: output, ExitCode: exitCode}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s (exit code %d)\n\nOutput:\n%s", e.Header, e.ExitCode, e.Output)
}
