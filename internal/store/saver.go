package store

import (
	"sync"

	"github.com/sadopc/multitimer/internal/logging"
	"github.com/sadopc/multitimer/internal/timer"
)

// Saver writes snapshots on its own goroutine. Only the most recent pending
// snapshot is kept, so Enqueue never blocks and a slow disk never delays a
// tick. Failures are logged and otherwise ignored.
type Saver struct {
	gw     Gateway
	logger *logging.Logger

	mu      sync.Mutex
	pending *timer.Snapshot
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func NewSaver(gw Gateway, logger *logging.Logger) *Saver {
	if logger == nil {
		logger = logging.NopLogger()
	}
	s := &Saver{
		gw:     gw,
		logger: logger.WithComponent("saver"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue replaces any snapshot still waiting to be written. It is a no-op
// after Close.
func (s *Saver) Enqueue(snap timer.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = &snap
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close writes the last pending snapshot, if any, and stops the worker.
func (s *Saver) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()
	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)
	for range s.wake {
		s.flush()
	}
	s.flush()
}

func (s *Saver) take() *timer.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.pending
	s.pending = nil
	return snap
}

func (s *Saver) flush() {
	snap := s.take()
	if snap == nil {
		return
	}
	if err := s.gw.Save(*snap); err != nil {
		s.logger.Error("save snapshot failed", "error", err)
		return
	}
	s.logger.Debug("snapshot saved", "timers", len(snap.Timers), "history", len(snap.History))
}
