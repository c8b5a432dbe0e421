// Package sqlite provides a single-file store for snapshots and users. It
// suits single-node deployments where running PostgreSQL is overkill.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/moneyfye/moneyfye/internal/domain"
	"github.com/moneyfye/moneyfye/internal/usecase"
)

// Store implements usecase.SnapshotStore and usecase.UserStore on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at path. Use ":memory:"
// for an in-memory database. WAL mode keeps readers unblocked while the
// background saver writes.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		owner_id   TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL DEFAULT '',
		hashed_password TEXT NOT NULL,
		active          INTEGER NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the owner's snapshot blob.
func (s *Store) Save(ctx context.Context, ownerID string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (owner_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, ownerID, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the owner's snapshot blob.
func (s *Store) Load(ctx context.Context, ownerID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE owner_id = ?`, ownerID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return data, nil
}

// Delete removes the owner's snapshot. Deleting a missing snapshot is not
// an error.
func (s *Store) Delete(ctx context.Context, ownerID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE owner_id = ?`, ownerID,
	); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Create inserts a new user.
func (s *Store) Create(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, hashed_password, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID, user.Email, user.Name, user.HashedPassword, boolToInt(user.Active),
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
		user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByEmail returns the user with the given email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT id, email, name, hashed_password, active, created_at, updated_at
		FROM users WHERE email = ?`, email)
}

// GetByID returns the user with the given ID.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT id, email, name, hashed_password, active, created_at, updated_at
		FROM users WHERE id = ?`, id)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user      domain.User
		active    int
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.HashedPassword, &active, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Active = active != 0
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &user, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	// Matching on the driver's message text avoids depending on its cgo
	// error types here.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
