package organizer

import (
	"sync"
	"time"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
)

// Observer is notified after an applied command installed a new snapshot. Observers
// run while the store is locked and must not dispatch to the same store.
type Observer func(cmd Command, next domain.Workspace)

// Store owns one case's workspace and serialises every command through a single
// mutation path, so concurrent callers never observe a half-applied transition.
type Store struct {
	mu        sync.Mutex
	state     domain.Workspace
	observers map[int]Observer
	nextID    int
	now       func() time.Time
}

func NewStore(initial domain.Workspace) *Store {
	return NewStoreWithClock(initial, func() time.Time { return time.Now().UTC() })
}

// NewStoreWithClock is NewStore with an injected clock for UpdatedAt stamps.
func NewStoreWithClock(initial domain.Workspace, now func() time.Time) *Store {
	return &Store{
		state:     initial.Clone(),
		observers: make(map[int]Observer),
		now:       now,
	}
}

// Snapshot returns a private copy of the current state.
func (s *Store) Snapshot() domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Version
}

// Dispatch applies cmd and returns a copy of the resulting snapshot together with
// whether the command was applied.
func (s *Store) Dispatch(cmd Command) (domain.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := Apply(s.state, cmd)
	if !applied {
		return s.state.Clone(), false
	}
	next.UpdatedAt = s.now()
	s.state = next

	out := next.Clone()
	for _, observer := range s.observers {
		observer(cmd, out.Clone())
	}
	return out, true
}

// Subscribe registers fn and returns a function that removes it again.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}
