package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/sandbox"
)

// buildDirs are checked in order for the build artifact directory.
var buildDirs = []string{"dist", "build", "out", "output", ".next", "public"}

func (r *Runner) runShell(state domain.ActionState, command, header string) error {
	ctx := state.Context()
	if err := r.shell.Ready(ctx); err != nil {
		return fmt.Errorf("runner: shell not ready: %w", err)
	}

	res, err := r.shell.ExecuteCommand(ctx, r.runID, command, func() {
		r.logger.Debug("aborting action", "id", state.ID, "kind", state.Kind())
		state.Abort()
	})
	if err != nil {
		return fmt.Errorf("runner: execute %s: %w", state.Kind(), err)
	}
	r.logger.Debug("shell response", "id", state.ID, "kind", state.Kind(), "exit_code", res.ExitCode)

	if res.ExitCode != 0 {
		return domain.NewCommandError(header, res.Output, res.ExitCode)
	}
	return nil
}

func (r *Runner) runFile(state domain.ActionState, a domain.FileAction) error {
	ctx := state.Context()
	r.writeFile(ctx, a.FilePath, a.Content)

	if a.History != nil {
		if err := r.SaveFileHistory(ctx, a.FilePath, *a.History); err != nil {
			r.logger.Error("failed to save file history", "path", a.FilePath, "error", err)
		}
	}
	return nil
}

// writeFile creates the parent directory of p and writes content to it.
// Failures are logged and never reach the action's status.
func (r *Runner) writeFile(ctx context.Context, p, content string) {
	rel := sandbox.Relative(r.host.Workdir(), p)

	if dir := sandbox.Dir(rel); dir != "." {
		if err := r.host.MkdirAll(ctx, dir); err != nil {
			r.logger.Error("failed to create folder", "path", dir, "error", err)
		} else {
			r.logger.Debug("created folder", "path", dir)
		}
	}

	if err := r.host.WriteFile(ctx, rel, []byte(content)); err != nil {
		r.logger.Error("failed to write file", "path", rel, "error", err)
		return
	}
	r.logger.Debug("file written", "path", rel)
}

func (r *Runner) runBuild(state domain.ActionState) (domain.BuildOutput, error) {
	ctx := state.Context()

	r.notifier.DeployAlert(domain.DeployAlert{
		Type:         domain.AlertInfo,
		Title:        "Building Application",
		Description:  "Building your application...",
		Stage:        domain.StageBuilding,
		BuildStatus:  domain.StatusRunning,
		DeployStatus: domain.StatusPending,
		Source:       domain.SourceNetlify,
	})

	proc, err := r.host.Spawn(ctx, r.buildCommand[0], r.buildCommand[1:]...)
	if err != nil {
		return domain.BuildOutput{}, fmt.Errorf("runner: build: %w", err)
	}

	var output strings.Builder
	if _, err := io.Copy(&output, proc.Output); err != nil {
		r.logger.Debug("build output stream ended early", "error", err)
	}
	exitCode, err := proc.Wait()
	if err != nil {
		return domain.BuildOutput{}, fmt.Errorf("runner: build: %w", err)
	}

	if exitCode != 0 {
		content := output.String()
		if content == "" {
			content = "No build output available"
		}
		r.notifier.DeployAlert(domain.DeployAlert{
			Type:         domain.AlertError,
			Title:        "Build Failed",
			Description:  "Your application build failed",
			Content:      content,
			Stage:        domain.StageBuilding,
			BuildStatus:  domain.StatusFailed,
			DeployStatus: domain.StatusPending,
			Source:       domain.SourceNetlify,
		})
		return domain.BuildOutput{}, domain.NewCommandError(headerBuild, output.String(), exitCode)
	}

	r.notifier.DeployAlert(domain.DeployAlert{
		Type:         domain.AlertSuccess,
		Title:        "Build Completed",
		Description:  "Your application was built successfully",
		Stage:        domain.StageDeploying,
		BuildStatus:  domain.StatusComplete,
		DeployStatus: domain.StatusRunning,
		Source:       domain.SourceNetlify,
	})

	return domain.BuildOutput{
		Path:     r.findBuildDir(ctx),
		ExitCode: exitCode,
		Output:   output.String(),
	}, nil
}

// findBuildDir returns the first existing build directory, or dist.
func (r *Runner) findBuildDir(ctx context.Context) string {
	workdir := r.host.Workdir()
	for _, dir := range buildDirs {
		p := sandbox.Join(workdir, dir)
		if _, err := r.host.ReadDir(ctx, p); err == nil {
			return p
		}
	}
	return sandbox.Join(workdir, "dist")
}

func (r *Runner) runDatabase(state domain.ActionState, a domain.DatabaseAction) error {
	logger := r.logger.With("id", state.ID, "operation", a.Operation)

	switch a.Operation {
	case domain.OperationMigration:
		if a.FilePath == "" {
			return fmt.Errorf("runner: database action %s: %w", state.ID, domain.ErrMigrationPath)
		}

		r.notifier.DatabaseAlert(domain.DatabaseAlert{
			Type:        domain.AlertInfo,
			Title:       "Supabase Migration",
			Description: "Create migration file: " + a.FilePath,
			Content:     a.Content,
			Source:      "supabase",
			ActionID:    state.ID,
			Operation:   a.Operation,
			ProjectID:   a.ProjectID,
		})

		r.writeFile(state.Context(), a.FilePath, a.Content)
		logger.Debug("migration file created", "path", a.FilePath)
		return nil

	case domain.OperationQuery:
		future := r.queries.Create(state.ID)

		r.notifier.DatabaseAlert(domain.DatabaseAlert{
			Type:        domain.AlertInfo,
			Title:       "Supabase Query",
			Description: "Execute database query",
			Content:     a.Content,
			Source:      "supabase",
			ActionID:    state.ID,
			Operation:   a.Operation,
			ProjectID:   a.ProjectID,
		})

		logger.Debug("query waiting for acknowledgement")
		if err := future.Wait(state.Context()); err != nil {
			r.queries.Discard(state.ID)
			return err
		}
		return nil

	default:
		return fmt.Errorf("runner: database action %s: %q: %w", state.ID, a.Operation, domain.ErrUnknownOperation)
	}
}
