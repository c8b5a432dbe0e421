package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/moneyfye/moneyfye/internal/domain"
)

// ErrSnapshotNotFound is returned by SnapshotStore.Load when the owner has
// no persisted state yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists the serialized ledger state per owner. The blob is
// opaque to the store: no relational model, just save/load/delete.
type SnapshotStore interface {
	Save(ctx context.Context, ownerID string, data []byte) error
	Load(ctx context.Context, ownerID string) ([]byte, error)
	Delete(ctx context.Context, ownerID string) error
}

// UserStore defines data access for users.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
