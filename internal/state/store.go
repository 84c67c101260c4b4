package state

import (
	"sync"

	"github.com/sadopc/multitimer/internal/timer"
)

// Reaction inspects a transition and returns follow-up commands. Follow-ups
// are applied before any other queued command, depth first. A Reaction runs
// inside the dispatch lock and must not call Dispatch itself.
type Reaction func(cmd Command, prev, next timer.Snapshot) []Command

// Observer is told about every applied command. It must not block.
type Observer func(cmd Command, next timer.Snapshot)

// Store owns the snapshot. It is the only thing that ever replaces it, and
// it applies commands one at a time.
type Store struct {
	dispatchMu sync.Mutex // serializes whole dispatch cycles

	mu        sync.RWMutex // guards state, reactions and observers
	state     timer.Snapshot
	reactions []Reaction
	observers []Observer
}

// NewStore creates a store holding initial.
func NewStore(initial timer.Snapshot) *Store {
	return &Store{state: Reduce(timer.Snapshot{}, LoadSnapshot{Snapshot: initial})}
}

// State returns the current snapshot. Callers must treat it as read-only.
func (s *Store) State() timer.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// React registers a reaction. Reactions run in registration order.
func (s *Store) React(r Reaction) {
	s.mu.Lock()
	s.reactions = append(s.reactions, r)
	s.mu.Unlock()
}

// Observe registers an observer.
func (s *Store) Observe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Dispatch applies cmd and every follow-up command it causes, then returns
// the resulting snapshot.
func (s *Store) Dispatch(cmd Command) timer.Snapshot {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	return s.drain(cmd)
}

// DispatchIf is Dispatch guarded by a check that runs inside the dispatch
// lock. When guard returns false nothing is applied and ok is false.
func (s *Store) DispatchIf(guard func() bool, cmd Command) (next timer.Snapshot, ok bool) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	if !guard() {
		return s.State(), false
	}
	return s.drain(cmd), true
}

// Exclusive runs fn while no command is being applied.
func (s *Store) Exclusive(fn func()) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	fn()
}

func (s *Store) drain(cmd Command) timer.Snapshot {
	queue := []Command{cmd}
	var current timer.Snapshot
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		s.mu.Lock()
		prev := s.state
		next := Reduce(prev, c)
		s.state = next
		reactions := s.reactions
		observers := s.observers
		s.mu.Unlock()
		current = next

		var follow []Command
		for _, r := range reactions {
			follow = append(follow, r(c, prev, next)...)
		}
		for _, o := range observers {
			o(c, next)
		}
		if len(follow) > 0 {
			queue = append(follow, queue...)
		}
	}
	return current
}
