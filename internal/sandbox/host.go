package sandbox

import (
	"context"
	"io"
)

// Host is the filesystem and process capability of the sandbox.
type Host interface {
	// Workdir is the sandbox working directory, e.g. /home/project.
	Workdir() string

	WriteFile(ctx context.Context, p string, content []byte) error

	// MkdirAll creates p and any missing parents. An existing directory is
	// not an error.
	MkdirAll(ctx context.Context, p string) error

	ReadFile(ctx context.Context, p string) ([]byte, error)

	// ReadDir returns the entry names of directory p.
	ReadDir(ctx context.Context, p string) ([]string, error)

	// Spawn starts name with args in the working directory.
	Spawn(ctx context.Context, name string, args ...string) (*Process, error)
}

// Process is a spawned process: a stream of its combined output and a
// way to wait for its exit code.
type Process struct {
	// Output yields stdout and stderr interleaved and reaches EOF once the
	// process has exited. It must be drained or the process may stall.
	Output io.Reader

	wait func() (int, error)
}

// NewProcess builds a Process from an output stream and a wait function.
func NewProcess(output io.Reader, wait func() (int, error)) *Process {
	return &Process{Output: output, wait: wait}
}

// Wait blocks until the process exits and returns its exit code.
func (p *Process) Wait() (int, error) {
	return p.wait()
}
