package tree

import (
	"sync"

	"tasktree/pkg/ident"
)

// Dispatcher is what a presentation layer needs: send an action, read the tree.
type Dispatcher interface {
	Dispatch(a Action) State
	State() State
}

// Transition records one dispatched action together with the states around it.
// Action is the prepared action, so it carries every id the reducer used.
type Transition struct {
	Action Action
	Prev   State
	Next   State
}

// Store holds the current State and serializes dispatches through Reduce.
// Subscribers receive every new state; a subscriber that falls behind
// misses states rather than blocking dispatch.
type Store struct {
	alloc ident.Allocator

	mu    sync.Mutex
	state State

	subMu sync.RWMutex
	subs  map[chan State]struct{}
}

// NewStore creates a Store starting from initial.
func NewStore(alloc ident.Allocator, initial State) *Store {
	return &Store{
		alloc: alloc,
		state: initial,
		subs:  make(map[chan State]struct{}),
	}
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	return s.Apply(a).Next.Clone()
}

// Apply prepares a, reduces it and notifies subscribers. Prev and Next in the
// returned Transition share structure with the store and must not be mutated.
func (s *Store) Apply(a Action) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	a = Prepare(a, s.alloc)
	prev := s.state
	next := Reduce(prev, a)
	s.state = next

	s.subMu.RLock()
	for ch := range s.subs {
		select {
		case ch <- next.Clone():
		default:
			// subscriber is behind; drop to avoid blocking dispatch
		}
	}
	s.subMu.RUnlock()

	return Transition{Action: a, Prev: prev, Next: next}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe returns a buffered channel that receives every new state.
func (s *Store) Subscribe() chan State {
	ch := make(chan State, 16)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown channels
// are ignored.
func (s *Store) Unsubscribe(ch chan State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if _, ok := s.subs[ch]; !ok {
		return
	}
	delete(s.subs, ch)
	close(ch)
}
