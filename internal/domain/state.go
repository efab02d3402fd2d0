package domain

import "context"

// ActionState is the Store's record for one action.
type ActionState struct {
	ID       string
	Action   Action
	Status   Status
	Executed bool

	signal *AbortSignal
	abort  func()
}

// NewActionState builds a pending record. abort is invoked by Abort and is
// expected to cancel signal and force the aborted status.
func NewActionState(data ActionData, signal *AbortSignal, abort func()) ActionState {
	return ActionState{
		ID:     data.ID,
		Action: data.Action,
		Status: Pending(),
		signal: signal,
		abort:  abort,
	}
}

// Kind returns the kind of the underlying action.
func (s ActionState) Kind() Kind {
	if s.Action == nil {
		return ""
	}
	return s.Action.Kind()
}

// Abort cancels the action. It is safe to call on a zero value.
func (s ActionState) Abort() {
	if s.abort != nil {
		s.abort()
	}
}

// Signal returns the action's cancellation token.
func (s ActionState) Signal() *AbortSignal { return s.signal }

// Aborted reports whether cancellation has been requested.
func (s ActionState) Aborted() bool { return s.signal.Aborted() }

// Context returns a context cancelled together with the action.
func (s ActionState) Context() context.Context {
	if s.signal == nil {
		return context.Background()
	}
	return s.signal.Context()
}

// Update is a partial ActionState. Nil fields are left unchanged. Status is
// replaced as a whole, so a merge can never split a failure from its message.
type Update struct {
	Status   *Status
	Executed *bool
	Action   Action
}

// StatusUpdate returns an Update that only sets the status.
func StatusUpdate(s Status) Update { return Update{Status: &s} }

// Apply returns s with u merged in.
func (u Update) Apply(s ActionState) ActionState {
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.Executed != nil {
		s.Executed = *u.Executed
	}
	if u.Action != nil {
		s.Action = u.Action
	}
	return s
}
