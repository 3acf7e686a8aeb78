package adoption

import (
	"sync"
	"time"
)

// Store is the single mutable cell holding the current adoption state.
//
// It wraps an immutable Set: every write swaps in a fresh copy, and
// snapshots handed to subscribers are never mutated afterwards. There is
// exactly one writer (the local user driving the UI or CLI), so the mutex
// only guards against a subscriber reading mid-swap.
type Store struct {
	mu   sync.Mutex
	set  Set
	subs []func(Set)
}

// NewStore creates a store seeded with the given state.
// A nil initial state starts empty.
func NewStore(initial Set) *Store {
	if initial == nil {
		initial = Set{}
	}
	return &Store{set: initial.Clone()}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Clone()
}

// Toggle flips membership of id and returns the new state.
func (s *Store) Toggle(id string) Set {
	s.mu.Lock()
	s.set = Toggle(s.set, id)
	snap := s.set.Clone()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return snap
}

// Import replaces the state wholesale, typically with externally supplied
// state already sanitized through FilterValid.
func (s *Store) Import(next Set) Set {
	if next == nil {
		next = Set{}
	}
	s.mu.Lock()
	s.set = next.Clone()
	snap := s.set.Clone()
	subs := s.subs
	s.mu.Unlock()

	notify(subs, snap)
	return snap
}

// Clear empties the state.
func (s *Store) Clear() Set {
	return s.Import(Set{})
}

// Subscribe registers fn to be called with a snapshot after every write.
// Subscribers run synchronously on the writing goroutine.
func (s *Store) Subscribe(fn func(Set)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func notify(subs []func(Set), snap Set) {
	for _, fn := range subs {
		fn(snap)
	}
}

// =============================================================================
// Debounced Persistence
// =============================================================================

// Persister coalesces bursts of state changes into one write.
//
// Debouncing is purely an I/O-volume optimization, not a correctness
// mechanism: each save is a single atomic replace, so a lost pending write
// only means the next load reconstructs from the last saved state.
type Persister struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending Set
	delay   time.Duration
	save    func(Set) error
	onError func(error)
}

// NewPersister creates a persister invoking save after delay has elapsed
// without further changes. Save errors are passed to onError; a nil onError
// drops them (persistence failures must never propagate to the caller).
func NewPersister(save func(Set) error, delay time.Duration, onError func(error)) *Persister {
	return &Persister{delay: delay, save: save, onError: onError}
}

// Notify schedules a save of the given state, resetting any pending timer.
func (p *Persister) Notify(s Set) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = s.Clone()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, p.flush)
}

// Flush writes any pending state immediately.
func (p *Persister) Flush() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	p.flush()
}

func (p *Persister) flush() {
	p.mu.Lock()
	s := p.pending
	p.pending = nil
	p.mu.Unlock()

	if s == nil {
		return
	}
	if err := p.save(s); err != nil && p.onError != nil {
		p.onError(err)
	}
}
