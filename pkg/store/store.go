// Package store provides a small observable state container.
//
// The state is a single value mutated exclusively through Commit, which
// applies a pure reducer under a lock. Concurrent committers therefore
// serialize in completion order: whichever commit runs last determines the
// final value (last-completed-wins). Handlers must never read a snapshot,
// compute outside the protocol, and write it back with a plain assignment;
// all derived writes go through a reducer so no update is lost.
package store

import "sync"

// Reducer transforms a state value into the next state value. Reducers must
// be pure: no I/O, no mutation of the input's shared slices or maps beyond
// wholesale replacement.
type Reducer[S any] func(S) S

// Store holds a single state value and a set of subscribers.
type Store[S any] struct {
	mu    sync.Mutex
	state S
	subs  map[int]func(S)
	next  int
}

// New creates a store seeded with the initial state.
func New[S any](initial S) *Store[S] {
	return &Store[S]{
		state: initial,
		subs:  make(map[int]func(S)),
	}
}

// State returns the current state snapshot.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Commit applies the reducer atomically and returns the resulting state.
// Subscribers are invoked with the new snapshot after the lock is released,
// so a subscriber may itself call Commit without deadlocking. When commits
// race, the state itself is strictly ordered by the lock; only the relative
// delivery order of their subscriber callbacks is unspecified.
func (s *Store[S]) Commit(reduce Reducer[S]) S {
	s.mu.Lock()
	s.state = reduce(s.state)
	next := s.state
	subs := make([]func(S), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to receive every committed snapshot. The returned
// cancel function unregisters it.
func (s *Store[S]) Subscribe(fn func(S)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
