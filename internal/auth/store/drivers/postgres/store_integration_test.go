//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tabauth_test"),
		tcpostgres.WithUsername("tabauth"),
		tcpostgres.WithPassword("tabauth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.ApplyMigrations(), "second run is a no-op")
	return st
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	origin := "ios"
	alice, err := st.Users().CreateUser(ctx, domain.User{
		Username:     "alice",
		Email:        "a@x.io",
		PasswordHash: []byte{1, 2, 3},
		Salt:         []byte{4, 5, 6},
		Origin:       &origin,
		CreatedAt:    base,
	})
	require.NoError(t, err)

	t.Run("user round trip", func(t *testing.T) {
		got, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, alice, got)
	})

	t.Run("username unique ignoring case", func(t *testing.T) {
		_, err := st.Users().CreateUser(ctx, domain.User{
			Username: "ALICE", Email: "b@x.io", PasswordHash: []byte{1}, Salt: []byte{1},
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, 424242)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, st.Sessions().DeleteSession(ctx, 424242), store.ErrNotFound)
	})

	sess, err := st.Sessions().CreateSession(ctx, domain.Session{
		UserID: alice.ID, Token: "tok", StartedAt: base, LastActiveAt: base,
	})
	require.NoError(t, err)

	t.Run("token unique", func(t *testing.T) {
		_, err := st.Sessions().CreateSession(ctx, domain.Session{
			UserID: alice.ID, Token: "tok", StartedAt: base, LastActiveAt: base,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("active window and touch", func(t *testing.T) {
		_, err := st.Sessions().GetActiveSession(ctx, "tok", base)
		require.NoError(t, err)
		_, err = st.Sessions().GetActiveSession(ctx, "tok", base.Add(time.Microsecond))
		require.ErrorIs(t, err, store.ErrNotFound)

		later := base.Add(time.Hour)
		require.NoError(t, st.Sessions().TouchSession(ctx, sess.ID, later))
		got, err := st.Sessions().GetUserSession(ctx, "tok", alice.ID)
		require.NoError(t, err)
		require.Equal(t, later, got.LastActiveAt)
	})

	t.Run("stale cleanup keeps current session", func(t *testing.T) {
		old, err := st.Sessions().CreateSession(ctx, domain.Session{
			UserID: alice.ID, Token: "old", StartedAt: base.Add(-30 * 24 * time.Hour),
			LastActiveAt: base.Add(-30 * 24 * time.Hour),
		})
		require.NoError(t, err)

		n, err := st.Sessions().DeleteStaleUserSessions(ctx, alice.ID, base, sess.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		_, err = st.Sessions().GetSessionByToken(ctx, old.Token)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		err := st.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Users().UpdateEmail(ctx, alice.ID, "rolled@x.io"))
			return store.ErrNotFound
		})
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := st.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "a@x.io", got.Email)
	})
}
