package domain

import "context"

// AbortSignal is a cancellation token owned by an action record and handed
// to its handler by reference. Handlers poll Aborted or select on Done.
type AbortSignal struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAbortSignal returns a signal whose context derives from parent.
func NewAbortSignal(parent context.Context) *AbortSignal {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &AbortSignal{ctx: ctx, cancel: cancel}
}

// Abort raises the signal. Repeated calls are no-ops.
func (s *AbortSignal) Abort() {
	if s != nil {
		s.cancel()
	}
}

// Aborted reports whether Abort has been called.
func (s *AbortSignal) Aborted() bool {
	if s == nil {
		return false
	}
	return s.ctx.Err() != nil
}

// Done is closed once the signal is raised.
func (s *AbortSignal) Done() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.ctx.Done()
}

// Context returns a context cancelled by Abort.
func (s *AbortSignal) Context() context.Context {
	if s == nil {
		return context.Background()
	}
	return s.ctx
}
