package actionstore

import (
	"log/slog"
	"sync"
)

// subscriber buffers changes without bound so publishing never blocks the
// update path and never drops a change.
type subscriber struct {
	fn     func(Change)
	logger *slog.Logger

	mu    sync.Mutex
	queue []Change

	wake chan struct{}
	done chan struct{}
}

func newSubscriber(fn func(Change), logger *slog.Logger) *subscriber {
	return &subscriber{
		fn:     fn,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (s *subscriber) push(c Change) {
	s.mu.Lock()
	s.queue = append(s.queue, c)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) loop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, c := range batch {
			select {
			case <-s.done:
				return
			default:
			}
			s.deliver(c)
		}
	}
}

func (s *subscriber) deliver(c Change) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked", "id", c.ID, "panic", r)
		}
	}()
	s.fn(c)
}

func (s *subscriber) stop() {
	close(s.done)
}
