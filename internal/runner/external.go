package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nathanbeddoewebdev/actionrunner/internal/alert"
	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/sandbox"
)

// NotifyDatabaseActionSuccess releases a query action waiting for
// acknowledgement. It reports false if nothing was waiting under id.
func (r *Runner) NotifyDatabaseActionSuccess(id string) bool {
	r.logger.Debug("database action acknowledged", "id", id)
	return r.queries.Resolve(id)
}

// NotifyDatabaseActionFailure fails a query action waiting for
// acknowledgement with err. It reports false if nothing was waiting under id.
func (r *Runner) NotifyDatabaseActionFailure(id string, err error) bool {
	if err == nil {
		err = errors.New("database action failed")
	}
	r.logger.Error("database action rejected", "id", id, "error", err)
	return r.queries.Reject(id, err)
}

// NotifyDeploy raises the alert for a deploy stage and status. It is a
// no-op when the notifier has no deploy sink.
func (r *Runner) NotifyDeploy(stage domain.DeployStage, status domain.StatusCode, details domain.DeployDetails) {
	if aware, ok := r.notifier.(alert.DeployAware); ok && !aware.HandlesDeploy() {
		r.logger.Debug("no deploy alert handler registered", "stage", stage, "status", status)
		return
	}
	r.notifier.DeployAlert(alert.DeployAlertFor(stage, status, details))
}

// historyPath mirrors filePath, as given, under the history directory.
// Dot-dot segments cannot climb above it.
func (r *Runner) historyPath(filePath string) string {
	return sandbox.Join(r.historyDir, sandbox.Rooted(filePath))
}

// GetFileHistory reads the history recorded for filePath.
func (r *Runner) GetFileHistory(ctx context.Context, filePath string) (*domain.FileHistory, error) {
	data, err := r.host.ReadFile(ctx, r.historyPath(filePath))
	if err != nil {
		return nil, fmt.Errorf("runner: get file history %s: %w", filePath, err)
	}

	var h domain.FileHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("runner: decode file history %s: %w", filePath, err)
	}
	return &h, nil
}

// SaveFileHistory records h for filePath under the history directory. The
// write follows file action rules: I/O failures are logged, not returned.
func (r *Runner) SaveFileHistory(ctx context.Context, filePath string, h domain.FileHistory) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("runner: encode file history %s: %w", filePath, err)
	}
	r.writeFile(ctx, r.historyPath(filePath), string(data))
	return nil
}
