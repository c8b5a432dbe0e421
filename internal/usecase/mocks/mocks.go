package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/usecase"
)

// MockSnapshotStore is an in-memory SnapshotStore with overridable hooks.
type MockSnapshotStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	saves int

	SaveFunc   func(ctx context.Context, ownerID string, data []byte) error
	LoadFunc   func(ctx context.Context, ownerID string) ([]byte, error)
	DeleteFunc func(ctx context.Context, ownerID string) error
}

func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{
		blobs: make(map[string][]byte),
	}
}

func (m *MockSnapshotStore) Save(ctx context.Context, ownerID string, data []byte) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, ownerID, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[ownerID] = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *MockSnapshotStore) Load(ctx context.Context, ownerID string) ([]byte, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[ownerID]
	if !ok {
		return nil, usecase.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MockSnapshotStore) Delete(ctx context.Context, ownerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, ownerID)
	return nil
}

// Stored returns the last saved blob for an owner, or nil.
func (m *MockSnapshotStore) Stored(ownerID string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[ownerID]
	if !ok {
		return nil
	}
	return append([]byte(nil), data...)
}

// SaveCount reports how many saves went through the default path.
func (m *MockSnapshotStore) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// MockUserStore is an in-memory UserStore with overridable hooks.
type MockUserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockCache is an in-memory Cache. TTLs are recorded but not enforced.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len reports the number of stored keys.
func (m *MockCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		entries: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[key]; ok {
		return true, append([]byte(nil), existing...), nil
	}
	m.entries[key] = append([]byte(nil), response...)
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), response...)
	return nil
}
