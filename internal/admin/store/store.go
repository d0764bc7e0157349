package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ragops/rag-admin/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConflictError is a uniqueness violation that names the offending column so
// the HTTP layer can surface a field-specific message. It matches
// errors.Is(err, ErrAlreadyExists).
type ConflictError struct {
	Field string // "username", "email" or "resource_id"
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s already exists", e.Field)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used for registration conflict checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// The resource bundle must already be assigned at insert time.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates name, username and email and bumps updated_at.
	UpdateProfile(ctx context.Context, userID, name, username, email string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateResources replaces the mutable resource fields. The resource_id
	// column is immutable once assigned; drivers must refuse to change it.
	UpdateResources(ctx context.Context, userID string, b domain.ResourceBundle) error

	// SetActive flips the active flag and bumps updated_at.
	SetActive(ctx context.Context, userID string, active bool) error

	// DeleteUser removes the account.
	DeleteUser(ctx context.Context, userID string) error

	// CountUsers returns the total number of accounts.
	CountUsers(ctx context.Context) (int64, error)

	// ListUnprovisioned returns users with at least one empty resource field,
	// used by the backfill job.
	ListUnprovisioned(ctx context.Context) ([]domain.User, error)
}
