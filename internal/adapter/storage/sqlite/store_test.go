package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/usecase"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "moneyfye.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshotSaveLoadDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Load(ctx, "owner-1"); !errors.Is(err, usecase.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}

	blob := []byte(`{"accounts":[]}`)
	if err := s.Save(ctx, "owner-1", blob); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "owner-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != string(blob) {
		t.Fatalf("round trip mismatch: %s", got)
	}

	// Save again overwrites in place.
	blob2 := []byte(`{"accounts":[{"id":"a1"}]}`)
	if err := s.Save(ctx, "owner-1", blob2); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err = s.Load(ctx, "owner-1")
	if err != nil || string(got) != string(blob2) {
		t.Fatalf("expected latest blob, got %s err=%v", got, err)
	}

	if err := s.Delete(ctx, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(ctx, "owner-1"); !errors.Is(err, usecase.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, "owner-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSnapshotsAreIsolatedPerOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "owner-1", []byte("one")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "owner-2", []byte("two")); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "owner-2")
	if err != nil || string(got) != "two" {
		t.Fatalf("owner-2 blob wrong: %s err=%v", got, err)
	}
}

func TestUserCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user := &domain.User{
		ID:             "user-1",
		Email:          "alice@example.com",
		Name:           "Alice",
		HashedPassword: "hash",
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := s.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != "user-1" || byEmail.Name != "Alice" || !byEmail.Active {
		t.Fatalf("unexpected user: %+v", byEmail)
	}
	if !byEmail.CreatedAt.Equal(now) {
		t.Fatalf("created_at mismatch: %v != %v", byEmail.CreatedAt, now)
	}

	byID, err := s.GetByID(ctx, "user-1")
	if err != nil || byID.Email != "alice@example.com" {
		t.Fatalf("get by id: %+v err=%v", byID, err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	first := &domain.User{ID: "user-1", Email: "bob@example.com", HashedPassword: "h", CreatedAt: now, UpdatedAt: now}
	if err := s.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &domain.User{ID: "user-2", Email: "bob@example.com", HashedPassword: "h", CreatedAt: now, UpdatedAt: now}
	if err := s.Create(ctx, dup); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
