package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestIdempotencyCheckAndSet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, _, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("first check failed: %v", err)
	}
	if exists {
		t.Fatalf("fresh key must not exist")
	}

	// Same key again: taken, placeholder returned.
	exists, existing, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if !exists {
		t.Fatalf("key must be marked as taken")
	}
	if !bytes.Equal(existing, []byte("processing")) {
		t.Fatalf("expected processing placeholder, got %q", existing)
	}
}

func TestIdempotencyUpdateAndReplay(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "req-2", nil, time.Minute); err != nil {
		t.Fatalf("check failed: %v", err)
	}

	final := []byte(`{"transaction_id":"tx-1"}`)
	if err := store.Update(ctx, "req-2", final, time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "req-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("replay check failed: %v", err)
	}
	if !exists || !bytes.Equal(existing, final) {
		t.Fatalf("replay must return the stored response, got exists=%v body=%q", exists, existing)
	}
}

func TestIdempotencyCheckAndSetWithResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	body := []byte(`{"ok":true}`)
	exists, _, err := store.CheckAndSet(ctx, "req-3", body, time.Minute)
	if err != nil || exists {
		t.Fatalf("expected fresh set, got exists=%v err=%v", exists, err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "req-3", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !exists || !bytes.Equal(existing, body) {
		t.Fatalf("expected stored body, got exists=%v body=%q", exists, existing)
	}
}
