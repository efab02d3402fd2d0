package runner

import (
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/actionrunner/internal/domain"
)

// Headers of the command errors raised by handlers.
const (
	headerShell = "Failed To Execute Shell Command"
	headerStart = "Failed To Start Application"
	headerBuild = "Build Failed"
)

// failureTitles are the alert titles for command failures by action kind.
var failureTitles = map[domain.Kind]string{
	domain.KindShell: "Command Failed",
	domain.KindBuild: "Build Failed",
	domain.KindStart: "Dev Server Failed",
}

// execute runs one queued action to a settled state. It never returns an
// error: failures are recorded in the store and, for command failures,
// raised on the alert channel.
func (r *Runner) execute(id string, streaming bool) {
	state, ok := r.store.Get(id)
	if !ok {
		r.logger.Error("queued action vanished", "id", id)
		return
	}
	logger := r.logger.With("id", id, "kind", state.Kind())

	if state.Aborted() {
		logger.Debug("skipping aborted action")
		r.setStatus(id, domain.Aborted())
		return
	}

	r.setStatus(id, domain.Running())

	if start, ok := state.Action.(domain.StartAction); ok {
		r.launchStart(state, start)
		return
	}

	logger.Debug("handling action")
	if err := r.dispatch(state); err != nil {
		r.fail(state, err)
		return
	}
	logger.Debug("completed action")

	switch {
	case streaming:
		r.setStatus(id, domain.Running())
	case state.Aborted():
		r.setStatus(id, domain.Aborted())
	default:
		r.setStatus(id, domain.Complete())
	}
}

func (r *Runner) dispatch(state domain.ActionState) error {
	switch a := state.Action.(type) {
	case domain.ShellAction:
		return r.runShell(state, a.Content, headerShell)
	case domain.FileAction:
		return r.runFile(state, a)
	case domain.BuildAction:
		out, err := r.runBuild(state)
		if err != nil {
			return err
		}
		r.buildMu.Lock()
		r.buildOutput = &out
		r.buildMu.Unlock()
		return nil
	case domain.DatabaseAction:
		return r.runDatabase(state, a)
	default:
		return fmt.Errorf("runner: %s: %w", state.Kind(), domain.ErrUnknownAction)
	}
}

// launchStart runs a start action off the queue and holds the queue for
// the start grace period. The action settles on its own goroutine.
func (r *Runner) launchStart(state domain.ActionState, a domain.StartAction) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.runShell(state, a.Content, headerStart); err != nil {
			r.fail(state, err)
			return
		}
		if !state.Aborted() {
			r.setStatus(state.ID, domain.Complete())
		}
	}()

	timer := time.NewTimer(r.startGrace)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-r.ctx.Done():
	}
}

// fail records err against the action. An aborted action is never marked
// failed and raises no alert.
func (r *Runner) fail(state domain.ActionState, err error) {
	logger := r.logger.With("id", state.ID, "kind", state.Kind())

	if state.Aborted() {
		logger.Debug("action stopped after abort", "error", err)
		r.setStatus(state.ID, domain.Aborted())
		return
	}

	logger.Error("action failed", "error", err)

	var cmdErr *domain.CommandError
	switch {
	case errors.As(err, &cmdErr):
		r.setStatus(state.ID, domain.Failed(cmdErr.Error()))
		r.notifier.ActionAlert(domain.ActionAlert{
			Type:        domain.AlertError,
			Title:       failureTitles[state.Kind()],
			Description: cmdErr.Header,
			Content:     cmdErr.Output,
			Source:      state.Kind(),
		})
	case state.Kind() == domain.KindDatabase:
		r.setStatus(state.ID, domain.Failed(err.Error()))
	default:
		r.setStatus(state.ID, domain.Failed(domain.DefaultFailureMessage))
	}
}
