package store

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// Memory is a mutex-guarded in-process Store. It backs the examples and the
// engine test suite; the mutex gives CompareAndSetRefreshToken the same
// single-winner semantics the Redis and Postgres stores provide.
type Memory struct {
	mu         sync.RWMutex
	byID       map[string]*Account
	byUsername map[string]string
	byEmail    map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:       make(map[string]*Account),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (m *Memory) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *acct
	return &copied, nil
}

func (m *Memory) FindByUsernameOrEmail(_ context.Context, username, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id, ok := m.byUsername[username]; ok && username != "" {
		copied := *m.byID[id]
		return &copied, nil
	}
	if id, ok := m.byEmail[email]; ok && email != "" {
		copied := *m.byID[id]
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (m *Memory) Create(_ context.Context, in CreateInput) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byUsername[in.Username]; taken {
		return nil, ErrConflict
	}
	if _, taken := m.byEmail[in.Email]; taken {
		return nil, ErrConflict
	}

	now := time.Now().UTC()
	acct := &Account{
		ID:           in.ID,
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[acct.ID] = acct
	m.byUsername[acct.Username] = acct.ID
	m.byEmail[acct.Email] = acct.ID

	copied := *acct
	return &copied, nil
}

func (m *Memory) CompareAndSetRefreshToken(_ context.Context, id, expected, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	// Constant-time here costs nothing; the remote backends compare inside
	// the datastore and cannot.
	if subtle.ConstantTimeCompare([]byte(acct.RefreshToken), []byte(expected)) != 1 {
		return false, nil
	}

	acct.RefreshToken = next
	acct.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *Memory) SetRefreshToken(_ context.Context, id, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	acct.RefreshToken = value
	acct.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) UpdatePasswordHash(_ context.Context, id, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	acct.PasswordHash = newHash
	acct.UpdatedAt = time.Now().UTC()
	return nil
}
