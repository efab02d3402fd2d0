package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"nathanbeddoewebdev/actionrunner/internal/dbexec"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/runner"
)

var (
	errQueryRejected      = errors.New("query rejected")
	errConfirmationNeeded = errors.New("query needs confirmation: rerun on a terminal or with --yes")
)

// acknowledger answers query alerts: it asks for confirmation, runs the
// query against the project database and reports the outcome back to the
// runner. Each alert is handled off the runner's goroutine.
type acknowledger struct {
	runner  *runner.Runner
	confirm func(domain.DatabaseAlert) (bool, error)
	dbPath  string
	logger  *slog.Logger
	out     *printer

	// prompts serialises confirmations so two forms never share the terminal.
	prompts sync.Mutex
	wg      sync.WaitGroup

	mu   sync.Mutex
	exec *dbexec.Executor
}

func (a *acknowledger) handle(ctx context.Context, alert domain.DatabaseAlert) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.acknowledge(ctx, alert); err != nil {
			a.logger.Warn("query not run", "id", alert.ActionID, "error", err)
			a.runner.NotifyDatabaseActionFailure(alert.ActionID, err)
			return
		}
		a.runner.NotifyDatabaseActionSuccess(alert.ActionID)
	}()
}

func (a *acknowledger) acknowledge(ctx context.Context, alert domain.DatabaseAlert) error {
	if a.confirm == nil {
		return errConfirmationNeeded
	}

	a.prompts.Lock()
	ok, err := a.confirm(alert)
	a.prompts.Unlock()
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return errQueryRejected
	}

	exec, err := a.executor()
	if err != nil {
		return err
	}
	res, err := exec.Exec(ctx, alert.Content)
	if err != nil {
		return err
	}
	a.out.result(alert.ActionID, res)
	return nil
}

// executor opens the project database on first use.
func (a *acknowledger) executor() (*dbexec.Executor, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exec != nil {
		return a.exec, nil
	}
	exec, err := dbexec.Open(a.dbPath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open project database: %w", err)
	}
	a.exec = exec
	return exec, nil
}

// wait blocks until every pending acknowledgement has been reported.
func (a *acknowledger) wait() {
	a.wg.Wait()
}

func (a *acknowledger) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.exec != nil {
		if err := a.exec.Close(); err != nil {
			a.logger.Error("failed to close project database", "error", err)
		}
		a.exec = nil
	}
}
