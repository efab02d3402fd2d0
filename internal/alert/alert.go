// Package alert is the one-way notification channel between the runner and
// whatever presents outcomes to the user.
package alert

import (
	"sync"

	"nathanbeddoewebdev/actionrunner/internal/domain"
)

// Notifier receives user-relevant outcomes. Implementations must not block
// for long: the runner calls them from its execution goroutine.
type Notifier interface {
	ActionAlert(domain.ActionAlert)
	DatabaseAlert(domain.DatabaseAlert)
	DeployAlert(domain.DeployAlert)
}

// DeployAware is implemented by notifiers that may have no deploy sink.
type DeployAware interface {
	HandlesDeploy() bool
}

// Funcs adapts optional callbacks to a Notifier. Nil callbacks drop the alert.
type Funcs struct {
	OnAction   func(domain.ActionAlert)
	OnDatabase func(domain.DatabaseAlert)
	OnDeploy   func(domain.DeployAlert)
}

func (f Funcs) ActionAlert(a domain.ActionAlert) {
	if f.OnAction != nil {
		f.OnAction(a)
	}
}

func (f Funcs) DatabaseAlert(a domain.DatabaseAlert) {
	if f.OnDatabase != nil {
		f.OnDatabase(a)
	}
}

func (f Funcs) DeployAlert(a domain.DeployAlert) {
	if f.OnDeploy != nil {
		f.OnDeploy(a)
	}
}

// HandlesDeploy reports whether OnDeploy is set.
func (f Funcs) HandlesDeploy() bool { return f.OnDeploy != nil }

// Discard is a Notifier that drops everything.
var Discard Notifier = Funcs{}

// Recorder keeps every alert it receives, in order.
type Recorder struct {
	mu       sync.Mutex
	actions  []domain.ActionAlert
	database []domain.DatabaseAlert
	deploys  []domain.DeployAlert
}

func (r *Recorder) ActionAlert(a domain.ActionAlert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *Recorder) DatabaseAlert(a domain.DatabaseAlert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.database = append(r.database, a)
}

func (r *Recorder) DeployAlert(a domain.DeployAlert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deploys = append(r.deploys, a)
}

// Actions returns a copy of the recorded action alerts.
func (r *Recorder) Actions() []domain.ActionAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ActionAlert(nil), r.actions...)
}

// Database returns a copy of the recorded database alerts.
func (r *Recorder) Database() []domain.DatabaseAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DatabaseAlert(nil), r.database...)
}

// Deploys returns a copy of the recorded deploy alerts.
func (r *Recorder) Deploys() []domain.DeployAlert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DeployAlert(nil), r.deploys...)
}

// Multi fans every alert out to each notifier in order.
type Multi []Notifier

func (m Multi) ActionAlert(a domain.ActionAlert) {
	for _, n := range m {
		n.ActionAlert(a)
	}
}

func (m Multi) DatabaseAlert(a domain.DatabaseAlert) {
	for _, n := range m {
		n.DatabaseAlert(a)
	}
}

func (m Multi) DeployAlert(a domain.DeployAlert) {
	for _, n := range m {
		n.DeployAlert(a)
	}
}

// HandlesDeploy reports whether any member accepts deploy alerts.
func (m Multi) HandlesDeploy() bool {
	for _, n := range m {
		if aware, ok := n.(DeployAware); !ok || aware.HandlesDeploy() {
			return true
		}
	}
	return false
}
