package sandbox

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocalShell_ExecuteCommand(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		wantCode int
		wantOut  string
	}{
		{name: "success", command: "echo hello", wantCode: 0, wantOut: "hello"},
		{name: "failure", command: "echo ERR >&2; exit 1", wantCode: 1, wantOut: "ERR"},
		{name: "ansi stripped", command: `printf '\033[31mred\033[0m\n'`, wantCode: 0, wantOut: "red"},
		{name: "no output", command: "true", wantCode: 0, wantOut: ""},
	}

	s := NewLocalShell(t.TempDir(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ExecuteCommand(context.Background(), "run-1", tt.command, nil)
			if err != nil {
				t.Fatalf("ExecuteCommand() error = %v", err)
			}
			if res.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tt.wantCode)
			}
			if res.Output != tt.wantOut {
				t.Errorf("Output = %q, want %q", res.Output, tt.wantOut)
			}
		})
	}
}

func TestLocalShell_RunIDInEnvironment(t *testing.T) {
	s := NewLocalShell(t.TempDir(), nil)

	res, err := s.ExecuteCommand(context.Background(), "abc-123", "echo $"+RunIDEnv, nil)
	if err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}
	if res.Output != "abc-123" {
		t.Errorf("Output = %q, want %q", res.Output, "abc-123")
	}
}

func TestLocalShell_Ready(t *testing.T) {
	s := NewLocalShell(t.TempDir(), nil)
	if err := s.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
}

func TestLocalShell_InterruptsRunningCommand(t *testing.T) {
	s := NewLocalShell(t.TempDir(), nil)

	var aborted atomic.Bool
	first := make(chan *CommandResult, 1)
	go func() {
		res, _ := s.ExecuteCommand(context.Background(), "run", "sleep 30", func() { aborted.Store(true) })
		first <- res
	}()

	// Wait until the first command is registered as current.
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.mu.Lock()
		running := s.current != nil
		s.mu.Unlock()
		if running {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first command never started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	res, err := s.ExecuteCommand(context.Background(), "run", "echo second", nil)
	if err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}
	if res.Output != "second" {
		t.Errorf("Output = %q, want %q", res.Output, "second")
	}
	if !aborted.Load() {
		t.Error("onAbort of interrupted command was not called")
	}

	select {
	case r := <-first:
		if r != nil && r.ExitCode == 0 {
			t.Errorf("interrupted command exit code = 0, want non-zero")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("interrupted command did not return")
	}
}

func TestLocalShell_ContextCancel(t *testing.T) {
	s := NewLocalShell(t.TempDir(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := s.ExecuteCommand(ctx, "run", "sleep 30", nil)
	if time.Since(start) > 10*time.Second {
		t.Fatal("command was not cancelled")
	}
	if err == nil && res.ExitCode == 0 {
		t.Error("cancelled command reported success")
	}
}
