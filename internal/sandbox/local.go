package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"

	"nathanbeddoewebdev/actionrunner/internal/domain"

	"golang.org/x/sync/errgroup"
)

// LocalHost is a Host backed by a directory on the local filesystem.
type LocalHost struct {
	root    string
	workdir string
}

// NewLocalHost maps the sandbox working directory workdir onto the real
// directory root, creating root if needed. An empty workdir selects
// DefaultWorkdir.
func NewLocalHost(root, workdir string) (*LocalHost, error) {
	if workdir == "" {
		workdir = DefaultWorkdir
	}
	if !path.IsAbs(workdir) {
		return nil, fmt.Errorf("sandbox: workdir %q must be absolute", workdir)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox: resolve root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("sandbox: create root %s: %w", abs, err)
	}

	return &LocalHost{root: abs, workdir: path.Clean(workdir)}, nil
}

// Workdir returns the sandbox working directory.
func (h *LocalHost) Workdir() string { return h.workdir }

// Root returns the real directory backing the working directory.
func (h *LocalHost) Root() string { return h.root }

// Resolve maps a sandbox path to a real path beneath Root.
func (h *LocalHost) Resolve(p string) (string, error) {
	rel := Relative(h.workdir, p)
	if escapes(rel) {
		return "", fmt.Errorf("sandbox: %s: %w", p, domain.ErrOutsideSandbox)
	}
	return filepath.Join(h.root, filepath.FromSlash(rel)), nil
}

func (h *LocalHost) WriteFile(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	real, err := h.Resolve(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(real, content, 0o644); err != nil {
		return fmt.Errorf("sandbox: write %s: %w", p, err)
	}
	return nil
}

func (h *LocalHost) MkdirAll(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	real, err := h.Resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(real, 0o755); err != nil {
		return fmt.Errorf("sandbox: mkdir %s: %w", p, err)
	}
	return nil
}

func (h *LocalHost) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	real, err := h.Resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(real)
	if err != nil {
		return nil, fmt.Errorf("sandbox: read %s: %w", p, err)
	}
	return data, nil
}

func (h *LocalHost) ReadDir(ctx context.Context, p string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	real, err := h.Resolve(p)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(real)
	if err != nil {
		return nil, fmt.Errorf("sandbox: readdir %s: %w", p, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Spawn starts the process with stdout and stderr merged into Output.
func (h *LocalHost) Spawn(ctx context.Context, name string, args ...string) (*Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = h.root
	configureProcessGroup(cmd, 0)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("sandbox: spawn %s: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("sandbox: spawn %s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("sandbox: spawn %s: %w", name, err)
	}

	pr, pw := io.Pipe()

	var pumps errgroup.Group
	pumps.Go(func() error { _, err := io.Copy(pw, stdout); return err })
	pumps.Go(func() error { _, err := io.Copy(pw, stderr); return err })

	done := make(chan struct{})
	var exitCode int
	var waitErr error
	go func() {
		defer close(done)
		copyErr := pumps.Wait()
		exitCode, waitErr = exitStatus(cmd.Wait())
		pw.CloseWithError(copyErr)
	}()

	return NewProcess(pr, func() (int, error) {
		<-done
		return exitCode, waitErr
	}), nil
}

// exitStatus converts the result of cmd.Wait or cmd.Run into an exit code.
// A non-zero exit is not an error; failing to run at all is.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
