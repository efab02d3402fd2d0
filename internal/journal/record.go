package journal

import "time"

// Entry is the persisted outcome of one action in one run.
type Entry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
	ActionID   string    `json:"action_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Summary    string    `json:"summary,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
