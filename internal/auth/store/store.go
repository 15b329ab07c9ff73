package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it so that a Tx exposes the same
// surface and code cannot accidentally nest transactions.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
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
	// CreateUser inserts u and returns it with ID and CreatedAt assigned.
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername matches the stored lowercase username exactly.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	UpdateEmail(ctx context.Context, id int64, email string) error

	// UpdatePassword replaces both the digest and the salt.
	UpdatePassword(ctx context.Context, id int64, hash, salt []byte) error

	// SetLockMessage locks the account with msg, or unlocks it when msg is nil.
	SetLockMessage(ctx context.Context, id int64, msg *string) error
}

type Sessions interface {
	// CreateSession inserts s and returns it with ID assigned.
	// Returns ErrAlreadyExists when the token is already in use.
	CreateSession(ctx context.Context, s domain.Session) (domain.Session, error)

	GetSessionByToken(ctx context.Context, token string) (domain.Session, error)

	// GetUserSession returns the session with token only if it belongs to userID.
	GetUserSession(ctx context.Context, token string, userID int64) (domain.Session, error)

	// GetActiveSession returns the session with token only if it was last
	// active at or after since.
	GetActiveSession(ctx context.Context, token string, since time.Time) (domain.Session, error)

	// TouchSession sets last_active_at. Returns ErrNotFound if the session
	// no longer exists.
	TouchSession(ctx context.Context, id int64, at time.Time) error

	// DeleteSession returns ErrNotFound if no row was removed.
	DeleteSession(ctx context.Context, id int64) error

	// DeleteStaleUserSessions removes sessions of userID last active at or
	// before cutoff, except keepID. It returns the number removed.
	DeleteStaleUserSessions(ctx context.Context, userID int64, cutoff time.Time, keepID int64) (int64, error)

	// DeleteStaleSessions removes every session last active before cutoff.
	DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error)
}
