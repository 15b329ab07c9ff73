package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const memoryDSN = ":memory:"

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens the database at dsn with foreign keys enforced on every
// pooled connection. Transactions begin IMMEDIATE so that a read followed
// by a write waits on busy_timeout for the write lock instead of failing
// with SQLITE_BUSY. ":memory:" is pinned to a single connection so the
// whole pool shares one database.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", connString(dsn))
	if err != nil {
		return nil, err
	}

	if dsn == memoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

// busyTimeoutMillis bounds how long a transaction waits for the write lock.
const busyTimeoutMillis = 5000

// connString puts the driver defaults ahead of any caller parameters so
// busy_timeout is in effect before pragmas such as journal_mode run.
func connString(dsn string) string {
	name, query, _ := strings.Cut(dsn, "?")

	params := []string{"_pragma=foreign_keys(1)"}
	if !strings.Contains(query, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout("+strconv.Itoa(busyTimeoutMillis)+")")
	}
	if !strings.Contains(query, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if query != "" {
		params = append(params, query)
	}
	return name + "?" + strings.Join(params, "&")
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
// A transaction already scoped to ctx is reused and left open.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if tx, ok := store.TxFromContext(ctx); ok {
		return fn(tx)
	}

	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after a successful commit is a no-op.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users       { return &usersRepo{q: s.db} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict turns unique constraint violations into store.ErrAlreadyExists.
func mapConflict(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

// expectRows reports store.ErrNotFound when an update touched nothing.
func expectRows(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toMicros(t time.Time) int64 { return t.UnixMicro() }

func fromMicros(v int64) time.Time { return time.UnixMicro(v).UTC() }

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}
