package runner

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"

	"nathanbeddoewebdev/actionrunner/internal/alert"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/sandbox"
)

// fakeHost is an in-memory sandbox.
type fakeHost struct {
	mu    sync.Mutex
	files map[string]string
	dirs  map[string]bool

	failWrites bool
	failMkdir  bool

	spawnOutput string
	spawnExit   int
	spawned     [][]string
}

func newFakeHost() *fakeHost {
	return &fakeHost{files: map[string]string{}, dirs: map[string]bool{}}
}

func (h *fakeHost) Workdir() string { return sandbox.DefaultWorkdir }

func (h *fakeHost) key(p string) string { return sandbox.Relative(h.Workdir(), p) }

func (h *fakeHost) WriteFile(_ context.Context, p string, content []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failWrites {
		return fmt.Errorf("write %s: %w", p, fs.ErrPermission)
	}
	h.files[h.key(p)] = string(content)
	return nil
}

func (h *fakeHost) MkdirAll(_ context.Context, p string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failMkdir {
		return fmt.Errorf("mkdir %s: %w", p, fs.ErrPermission)
	}
	h.dirs[h.key(p)] = true
	return nil
}

func (h *fakeHost) ReadFile(_ context.Context, p string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[h.key(p)]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", p, fs.ErrNotExist)
	}
	return []byte(content), nil
}

func (h *fakeHost) ReadDir(_ context.Context, p string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.dirs[h.key(p)] {
		return nil, fmt.Errorf("readdir %s: %w", p, fs.ErrNotExist)
	}
	return nil, nil
}

func (h *fakeHost) Spawn(_ context.Context, name string, args ...string) (*sandbox.Process, error) {
	h.mu.Lock()
	h.spawned = append(h.spawned, append([]string{name}, args...))
	output, exit := h.spawnOutput, h.spawnExit
	h.mu.Unlock()

	return sandbox.NewProcess(strings.NewReader(output), func() (int, error) {
		return exit, nil
	}), nil
}

func (h *fakeHost) file(p string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	content, ok := h.files[h.key(p)]
	return content, ok
}

// fakeShell records commands. A command with a gate blocks until the gate
// is closed or its context is cancelled.
type fakeShell struct {
	mu       sync.Mutex
	commands []string
	results  map[string]sandbox.CommandResult
	gates    map[string]chan struct{}
}

func newFakeShell() *fakeShell {
	return &fakeShell{
		results: map[string]sandbox.CommandResult{},
		gates:   map[string]chan struct{}{},
	}
}

func (s *fakeShell) Ready(ctx context.Context) error { return ctx.Err() }

func (s *fakeShell) ExecuteCommand(ctx context.Context, _ string, command string, _ func()) (*sandbox.CommandResult, error) {
	s.mu.Lock()
	s.commands = append(s.commands, command)
	res := s.results[command]
	gate := s.gates[command]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return &sandbox.CommandResult{ExitCode: -1}, nil
		}
	}
	return &res, nil
}

func (s *fakeShell) gate(command string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[command] = ch
	return ch
}

func (s *fakeShell) result(command string, res sandbox.CommandResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[command] = res
}

func (s *fakeShell) executed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

type testRunner struct {
	*Runner
	host   *fakeHost
	shell  *fakeShell
	alerts *alert.Recorder
}

func newTestRunner(t *testing.T) *testRunner {
	t.Helper()
	host, shell, alerts := newFakeHost(), newFakeShell(), &alert.Recorder{}
	r, err := New(Options{
		Host:       host,
		Shell:      shell,
		Notifier:   alerts,
		StartGrace: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return &testRunner{Runner: r, host: host, shell: shell, alerts: alerts}
}

func (tr *testRunner) add(t *testing.T, id string, action domain.Action) domain.ActionData {
	t.Helper()
	data := domain.ActionData{ID: id, Action: action}
	if !tr.Register(data) {
		t.Fatalf("Register(%s) = false, want true", id)
	}
	return data
}

func (tr *testRunner) status(t *testing.T, id string) domain.Status {
	t.Helper()
	state, ok := tr.Store().Get(id)
	if !ok {
		t.Fatalf("action %s not in store", id)
	}
	return state.Status
}

// runAsync calls Run on its own goroutine and returns its result channel.
func (tr *testRunner) runAsync(data domain.ActionData, streaming bool) <-chan error {
	done := make(chan error, 1)
	go func() { done <- tr.Run(context.Background(), data, streaming) }()
	return done
}

// waitQueued blocks until n jobs are waiting in the queue.
func (tr *testRunner) waitQueued(t *testing.T, n int) {
	t.Helper()
	eventually(t, func() bool {
		tr.queue.mu.Lock()
		defer tr.queue.mu.Unlock()
		return len(tr.queue.items) == n
	})
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}
