// Package runner sequences action execution against a sandbox.
//
// Actions are registered as pending, then handed to Run in the order they
// become actionable. A single worker drains a FIFO queue, so shell commands
// and file writes never interleave and a failure in one action never stops
// the ones queued behind it. Start actions detach after a short grace delay
// and database queries park the queue until an external party acknowledges
// them through NotifyDatabaseActionSuccess or NotifyDatabaseActionFailure.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nathanbeddoewebdev/actionrunner/internal/actionstore"
	"nathanbeddoewebdev/actionrunner/internal/alert"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/sandbox"
	"nathanbeddoewebdev/actionrunner/internal/waithandle"
)

// DefaultStartGrace is how long Run waits after launching a start action
// before the queue moves on.
const DefaultStartGrace = 2 * time.Second

// DefaultHistoryDir is the sandbox directory file histories are kept under.
const DefaultHistoryDir = ".history"

// DefaultBuildCommand is spawned for build actions.
var DefaultBuildCommand = []string{"npm", "run", "build"}

// Options configures a Runner. Host and Shell are required.
type Options struct {
	Host     sandbox.Host
	Shell    sandbox.Shell
	Notifier alert.Notifier
	Logger   *slog.Logger

	// BuildCommand is the program and arguments run for build actions.
	BuildCommand []string

	StartGrace time.Duration
	HistoryDir string
}

// Runner is the action sequencer.
type Runner struct {
	host     sandbox.Host
	shell    sandbox.Shell
	notifier alert.Notifier
	logger   *slog.Logger

	buildCommand []string
	startGrace   time.Duration
	historyDir   string

	runID   string
	store   *actionstore.Store
	queries waithandle.Table[string]
	queue   *queue

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders the executed check against the enqueue in Run.
	mu sync.Mutex

	buildMu     sync.Mutex
	buildOutput *domain.BuildOutput
}

// New creates a Runner and starts its worker.
func New(opts Options) (*Runner, error) {
	if opts.Host == nil {
		return nil, errors.New("runner: host is required")
	}
	if opts.Shell == nil {
		return nil, errors.New("runner: shell is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = alert.Discard
	}
	buildCommand := opts.BuildCommand
	if len(buildCommand) == 0 {
		buildCommand = DefaultBuildCommand
	}
	startGrace := opts.StartGrace
	if startGrace <= 0 {
		startGrace = DefaultStartGrace
	}
	historyDir := opts.HistoryDir
	if historyDir == "" {
		historyDir = DefaultHistoryDir
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		host:         opts.Host,
		shell:        opts.Shell,
		notifier:     notifier,
		logger:       logger.With("component", "runner"),
		buildCommand: buildCommand,
		startGrace:   startGrace,
		historyDir:   historyDir,
		runID:        uuid.NewString(),
		store:        actionstore.New(logger),
		queue:        newQueue(),
		ctx:          ctx,
		cancel:       cancel,
	}

	r.wg.Add(1)
	go r.work()

	return r, nil
}

// Close stops the worker. In-flight actions are cancelled and runs still
// queued return ErrRunnerClosed. Close waits for detached start actions to
// settle.
func (r *Runner) Close() error {
	r.cancel()
	for _, j := range r.queue.close() {
		j.finish(domain.ErrRunnerClosed)
	}
	r.wg.Wait()
	return nil
}

// RunID identifies this runner to the shell on every command.
func (r *Runner) RunID() string { return r.runID }

// Store returns the action store backing this runner.
func (r *Runner) Store() *actionstore.Store { return r.store }

// BuildOutput returns the result of the last successful build.
func (r *Runner) BuildOutput() (domain.BuildOutput, bool) {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()
	if r.buildOutput == nil {
		return domain.BuildOutput{}, false
	}
	return *r.buildOutput, true
}

// Register adds data to the store as pending with a fresh abort signal.
// Registering an id that already exists is a no-op and reports false.
func (r *Runner) Register(data domain.ActionData) bool {
	if data.Action == nil {
		r.logger.Error("refusing to register action without payload", "id", data.ID)
		return false
	}
	if _, exists := r.store.Get(data.ID); exists {
		r.logger.Debug("action already registered", "id", data.ID)
		return false
	}

	signal := domain.NewAbortSignal(r.ctx)
	id := data.ID
	abort := func() {
		if _, changed := r.store.Abort(id); !changed {
			return
		}
		signal.Abort()
		r.queries.Discard(id)
	}

	added := r.store.Register(domain.NewActionState(data, signal, abort))
	if added {
		r.logger.Debug("action registered", "id", id, "kind", data.Action.Kind())
	}
	return added
}

// Run makes the action eligible for execution and blocks until it has
// settled, ctx is done or the runner is closed.
//
// Streaming runs are only honoured for file actions; an action whose final
// run has been accepted is never queued again. The payload in data replaces
// the stored one, so a streaming file grows with every call.
//
// The action's outcome is recorded in the store, not returned: a failed
// action still returns nil.
func (r *Runner) Run(ctx context.Context, data domain.ActionData, streaming bool) error {
	r.mu.Lock()

	state, ok := r.store.Get(data.ID)
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("runner: run %s: %w", data.ID, domain.ErrActionNotFound)
	}
	if state.Executed {
		r.mu.Unlock()
		return nil
	}
	if streaming && state.Kind() != domain.KindFile {
		r.mu.Unlock()
		return nil
	}

	executed := !streaming
	update := domain.Update{Executed: &executed}
	if data.Action != nil && data.Action.Kind() == state.Kind() {
		update.Action = data.Action
	}
	if _, err := r.store.Update(data.ID, update); err != nil && !errors.Is(err, domain.ErrActionAborted) {
		r.mu.Unlock()
		return fmt.Errorf("runner: run %s: %w", data.ID, err)
	}

	j := newJob(data.ID, streaming)
	if !r.queue.push(j) {
		r.mu.Unlock()
		return fmt.Errorf("runner: run %s: %w", data.ID, domain.ErrRunnerClosed)
	}
	r.mu.Unlock()

	select {
	case <-j.done:
		if j.err != nil {
			return fmt.Errorf("runner: run %s: %w", data.ID, j.err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Abort cancels the action with the given id. It reports false if the id
// is unknown.
func (r *Runner) Abort(id string) bool {
	state, ok := r.store.Get(id)
	if !ok {
		return false
	}
	state.Abort()
	return true
}

// UpdateActionState applies an externally driven correction to an action.
func (r *Runner) UpdateActionState(id string, u domain.Update) error {
	r.logger.Debug("external action state update", "id", id)
	if _, err := r.store.Update(id, u); err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	return nil
}

func (r *Runner) setStatus(id string, status domain.Status) {
	_, err := r.store.Update(id, domain.StatusUpdate(status))
	if err != nil {
		r.logger.Debug("status update dropped", "id", id, "status", status.Code(), "error", err)
	}
}
