package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserStore tests registration, authentication and lookup
func TestUserStore(t *testing.T) {
	t.Run("new store is empty", func(t *testing.T) {
		store := NewUserStore()

		assert.Equal(t, 0, store.Count())
		assert.False(t, store.Exists(uuid.New()))
	})

	t.Run("register and look up", func(t *testing.T) {
		store := NewUserStore()

		id, err := store.Register("alice", "secret")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		assert.True(t, store.Exists(id))

		u, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "secret", u.Credential)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		store := NewUserStore()

		_, err := store.Register("alice", "one")
		require.NoError(t, err)

		_, err = store.Register("alice", "two")
		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.Equal(t, 1, store.Count())
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		store := NewUserStore()

		_, err := store.Register("alice", "pw")
		require.NoError(t, err)
		_, err = store.Register("Alice", "pw")
		assert.NoError(t, err)
		assert.Equal(t, 2, store.Count())
	})

	t.Run("ids are unique", func(t *testing.T) {
		store := NewUserStore()

		a, err := store.Register("a", "pw")
		require.NoError(t, err)
		b, err := store.Register("b", "pw")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("get unknown user", func(t *testing.T) {
		store := NewUserStore()

		_, err := store.Get(uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

// TestUserStoreAuthenticate tests credential matching
func TestUserStoreAuthenticate(t *testing.T) {
	store := NewUserStore()
	alice, err := store.Register("alice", "secret")
	require.NoError(t, err)

	tests := []struct {
		name       string
		username   string
		credential string
		wantErr    error
	}{
		{name: "exact match", username: "alice", credential: "secret"},
		{name: "wrong credential", username: "alice", credential: "Secret", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "mallory", credential: "secret", wantErr: ErrInvalidCredentials},
		{name: "empty fields", username: "", credential: "", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := store.Authenticate(tt.username, tt.credential)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, uuid.Nil, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice, id)
		})
	}
}

// TestUserStoreConcurrentRegister verifies that racing registrations of the
// same username produce exactly one winner
func TestUserStoreConcurrentRegister(t *testing.T) {
	store := NewUserStore()

	const goroutines = 50
	const names = 5

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := make(map[string]int)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", n%names)
			if _, err := store.Register(name, "pw"); err == nil {
				mu.Lock()
				wins[name]++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrUsernameTaken)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, names, store.Count())
	for name, n := range wins {
		assert.Equal(t, 1, n, "username %s registered %d times", name, n)
	}
}
