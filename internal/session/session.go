package session

import (
	"sync"
	"time"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/profile"
)

// Step is the registration step a conversation is in.
type Step int

const (
	None Step = iota
	AwaitingCredential
	AwaitingOffset
)

func (s Step) String() string {
	switch s {
	case AwaitingCredential:
		return "awaiting_credential"
	case AwaitingOffset:
		return "awaiting_offset"
	default:
		return "none"
	}
}

// State is the transient registration scratch for one user.
type State struct {
	Step       Step
	Credential string
	Profile    *profile.Profile
}

type entry struct {
	state     State
	expiresAt time.Time
}

// Store holds per-identity conversation state in memory. Entries expire ttl
// after their last write and then read back as None.
type Store struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	state map[string]entry
}

// NewStore creates a store; ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		state: make(map[string]entry),
	}
}

// Get returns the live state for identity.
func (s *Store) Get(identity string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state[identity]
	if !ok {
		return State{}
	}
	if s.expired(e) {
		delete(s.state, identity)
		return State{}
	}
	return e.state
}

// Set replaces the state for identity and refreshes its expiry.
func (s *Store) Set(identity string, st State) {
	if st.Step == None {
		s.Clear(identity)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[identity] = entry{state: st, expiresAt: s.now().Add(s.ttl)}
}

// Clear drops any state for identity.
func (s *Store) Clear(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, identity)
}

// Prune removes expired entries and returns how many were dropped.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.state {
		if s.expired(e) {
			delete(s.state, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state)
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && !s.now().Before(e.expiresAt)
}
