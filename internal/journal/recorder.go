package journal

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"nathanbeddoewebdev/actionrunner/internal/actionstore"
	"nathanbeddoewebdev/actionrunner/internal/domain"
)

// Recorder saves one entry for every action of a run that settles.
type Recorder struct {
	repo   Repository
	runID  string
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	started map[string]time.Time
	saved   map[string]bool
}

// NewRecorder returns a Recorder writing entries for runID to repo.
func NewRecorder(repo Repository, runID string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{
		repo:    repo,
		runID:   runID,
		logger:  logger.With("component", "journal"),
		now:     time.Now,
		started: map[string]time.Time{},
		saved:   map[string]bool{},
	}
}

// Observe is an actionstore subscriber: it notes when an action starts
// running and saves it once it reaches a terminal status.
func (r *Recorder) Observe(c actionstore.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case c.State.Status.Code() == domain.StatusRunning:
		if _, ok := r.started[c.ID]; !ok {
			r.started[c.ID] = r.now()
		}
	case c.State.Status.IsTerminal():
		r.saveLocked(c.State)
	}
}

// Flush saves every settled action in states that has not been saved yet.
func (r *Recorder) Flush(states []domain.ActionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range states {
		if s.Status.IsTerminal() {
			r.saveLocked(s)
		}
	}
}

func (r *Recorder) saveLocked(s domain.ActionState) {
	if r.saved[s.ID] {
		return
	}
	r.saved[s.ID] = true

	now := r.now()
	var duration int64
	if start, ok := r.started[s.ID]; ok {
		duration = now.Sub(start).Milliseconds()
	}

	entry := &Entry{
		Timestamp:  now.UTC(),
		RunID:      r.runID,
		ActionID:   s.ID,
		Kind:       string(s.Kind()),
		Status:     string(s.Status.Code()),
		Summary:    Summarize(s.Action),
		Detail:     firstLine(s.Status.Message()),
		DurationMs: duration,
	}
	if err := r.repo.Save(entry); err != nil {
		r.logger.Error("failed to save journal entry", "id", s.ID, "error", err)
	}
}

// Summarize describes an action in one redacted line.
func Summarize(a domain.Action) string {
	switch a := a.(type) {
	case domain.ShellAction:
		return Redact(a.Content)
	case domain.StartAction:
		return Redact(a.Content)
	case domain.FileAction:
		return a.FilePath
	case domain.DatabaseAction:
		if a.Operation == domain.OperationMigration {
			return "migration " + a.FilePath
		}
		return "query " + Redact(a.Content)
	default:
		return ""
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
