package domain

// StatusCode is the lifecycle position of an action.
type StatusCode string

const (
	StatusPending  StatusCode = "pending"
	StatusRunning  StatusCode = "running"
	StatusComplete StatusCode = "complete"
	StatusAborted  StatusCode = "aborted"
	StatusFailed   StatusCode = "failed"
)

// DefaultFailureMessage is recorded for failures that carry no diagnostic
// detail worth surfacing.
const DefaultFailureMessage = "Action failed"

// Status couples a StatusCode with the failure message. The fields are
// unexported so a failed status always has a message and no other status
// can carry one. The zero value is a pending status.
type Status struct {
	code StatusCode
	err  string
}

// Pending returns the initial status.
func Pending() Status { return Status{code: StatusPending} }

// Running returns the running status.
func Running() Status { return Status{code: StatusRunning} }

// Complete returns the successful terminal status.
func Complete() Status { return Status{code: StatusComplete} }

// Aborted returns the cancelled terminal status.
func Aborted() Status { return Status{code: StatusAborted} }

// Failed returns the failed terminal status. An empty message is replaced
// with DefaultFailureMessage.
func Failed(message string) Status {
	if message == "" {
		message = DefaultFailureMessage
	}
	return Status{code: StatusFailed, err: message}
}

// Code returns the lifecycle position.
func (s Status) Code() StatusCode {
	if s.code == "" {
		return StatusPending
	}
	return s.code
}

// Message returns the failure message. It is empty unless Code is StatusFailed.
func (s Status) Message() string { return s.err }

// IsTerminal reports whether the action has stopped for good.
func (s Status) IsTerminal() bool {
	switch s.Code() {
	case StatusComplete, StatusAborted, StatusFailed:
		return true
	}
	return false
}

func (s Status) String() string {
	if s.code == StatusFailed {
		return string(StatusFailed) + ": " + s.err
	}
	return string(s.Code())
}
