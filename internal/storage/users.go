package storage

import (
	"sync"

	"github.com/google/uuid"
)

// User is an account record.
// Credential is stored verbatim; hashing is out of scope for this service.
type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Credential string    `json:"-"`
}

// UserStore maps user ids to user records and enforces unique usernames.
// Uses sync.RWMutex for thread-safe concurrent access
type UserStore struct {
	mu    sync.RWMutex         // Protects users and names
	users map[uuid.UUID]User   // User records by id
	names map[string]uuid.UUID // Username index, always in sync with users
}

// NewUserStore creates an empty identity store
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[uuid.UUID]User),
		names: make(map[string]uuid.UUID),
	}
}

// Register creates a user with the given username and credential.
// Returns ErrUsernameTaken if the username is already in use (exact,
// case-sensitive match). The uniqueness check and the insert share one
// critical section so concurrent registrations can't both win.
func (s *UserStore) Register(username, credential string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.names[username]; taken {
		return uuid.Nil, ErrUsernameTaken
	}

	id := uuid.New()
	s.users[id] = User{ID: id, Username: username, Credential: credential}
	s.names[username] = id
	return id, nil
}

// Authenticate returns the id of the user matching both fields exactly
// Returns ErrInvalidCredentials otherwise
func (s *UserStore) Authenticate(username, credential string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.names[username]
	if !ok || s.users[id].Credential != credential {
		return uuid.Nil, ErrInvalidCredentials
	}
	return id, nil
}

// Exists reports whether a user with the given id is registered
func (s *UserStore) Exists(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok
}

// Get returns a copy of the user record
func (s *UserStore) Get(id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// Count returns the number of registered users
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
