package store

import (
	"sync"

	"github.com/ahleite/plannito-bot/internal/model"
)

// State is everything the bot remembers about one user between
// messages: the active bank account and at most one awaiting-reply
// action. Flows must treat the store as the only owner of this data
// and never keep shadow copies in their own fields.
type State struct {
	SelectedAccount *model.BankAccount
	Pending         *model.Pending
}

// Backend is the swappable storage behind the conversation store. The
// in-memory implementation is the default; a bolt-backed one survives
// restarts.
type Backend interface {
	Load(userID string) (State, bool)
	Save(userID string, state State) error
	Delete(userID string) error
	// Users lists every user id with stored state, for maintenance
	// jobs such as balance reconciliation.
	Users() ([]string, error)
}

// Store keys conversation state by user id. All mutation is
// last-writer-wins; Get never fails for an unknown user.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

func New(backend Backend) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{backend: backend}
}

// Get returns the user's state, empty if none was recorded yet.
func (s *Store) Get(userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, _ := s.backend.Load(userID)
	return state
}

func (s *Store) SetSelectedAccount(userID string, account *model.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, _ := s.backend.Load(userID)
	state.SelectedAccount = account
	return s.backend.Save(userID, state)
}

// SetPending records the user's awaiting-reply action, replacing any
// unresolved prior one. Passing nil clears it.
func (s *Store) SetPending(userID string, pending *model.Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, _ := s.backend.Load(userID)
	state.Pending = pending
	return s.backend.Save(userID, state)
}

// Clear drops both fields. Clearing an empty state is a no-op.
func (s *Store) Clear(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Delete(userID)
}

func (s *Store) Users() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Users()
}

// MemoryBackend keeps state in a plain map for the process lifetime.
type MemoryBackend struct {
	states map[string]State
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{states: make(map[string]State)}
}

func (m *MemoryBackend) Load(userID string) (State, bool) {
	state, ok := m.states[userID]
	return state, ok
}

func (m *MemoryBackend) Save(userID string, state State) error {
	m.states[userID] = state
	return nil
}

func (m *MemoryBackend) Delete(userID string) error {
	delete(m.states, userID)
	return nil
}

func (m *MemoryBackend) Users() ([]string, error) {
	users := make([]string, 0, len(m.states))
	for id := range m.states {
		users = append(users, id)
	}
	return users, nil
}
