package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/moneyfye/moneyfye/internal/infrastructure/config"
)

func TestOpenStorageSQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: "sqlite",
		SQLitePath:    filepath.Join(t.TempDir(), "test.db"),
	}

	snapshots, users, checks, closeStorage, err := openStorage(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("openStorage() error = %v", err)
	}
	defer closeStorage()

	if snapshots == nil || users == nil {
		t.Fatal("expected non-nil stores")
	}
	if len(checks) != 1 || checks[0].Name != "sqlite" {
		t.Fatalf("unexpected health checks: %+v", checks)
	}
	if err := checks[0].Check(context.Background()); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
}
