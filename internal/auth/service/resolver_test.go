package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		e := newEnv(t)
		u, err := e.resolver.Resolve(ctx, nil)
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("unknown token", func(t *testing.T) {
		e := newEnv(t)
		u, err := e.resolver.Resolve(ctx, ptr("not-a-token"))
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("login round trip touches session", func(t *testing.T) {
		e := newEnv(t)
		alice := e.seedUser(t, "alice", "password123", nil, nil)
		sess := e.login(t, "alice", "password123")

		e.clock.Advance(time.Hour)
		u, err := e.resolver.Resolve(ctx, &sess.Token)
		require.NoError(t, err)
		require.NotNil(t, u)
		require.Equal(t, alice.ID, u.ID)

		stored, err := e.store.Sessions().GetSessionByToken(ctx, sess.Token)
		require.NoError(t, err)
		require.Equal(t, e.clock.Now(), stored.LastActiveAt)
		require.Equal(t, sess.StartedAt, stored.StartedAt)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		e := newEnv(t)
		alice := e.seedUser(t, "alice", "password123", nil, nil)
		e.seedSession(t, alice.ID, "edge", e.clock.Now().Add(-domain.ResolveWindow))

		u, err := e.resolver.Resolve(ctx, ptr("edge"))
		require.NoError(t, err)
		require.NotNil(t, u)
	})

	t.Run("stale token resolves to nothing and is kept", func(t *testing.T) {
		e := newEnv(t)
		alice := e.seedUser(t, "alice", "password123", nil, nil)
		seeded := e.seedSession(t, alice.ID, "stale", e.clock.Now().Add(-8*24*time.Hour))

		u, err := e.resolver.Resolve(ctx, ptr("stale"))
		require.NoError(t, err)
		require.Nil(t, u)

		stored, err := e.store.Sessions().GetSessionByToken(ctx, "stale")
		require.NoError(t, err)
		require.Equal(t, seeded.LastActiveAt, stored.LastActiveAt)
	})
}

func TestResolveConcurrentSameToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "auth.db") + "?_pragma=journal_mode(WAL)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := newFakeClock()
	e := &env{
		store:    st,
		clock:    clock,
		resolver: &TokenResolver{Store: st, Clock: clock.Now},
	}
	alice := e.seedUser(t, "alice", "password123", nil, nil)
	e.seedSession(t, alice.ID, "shared", clock.Now().Add(-time.Hour))

	const workers = 64
	var wg sync.WaitGroup
	type result struct {
		user *domain.User
		err  error
	}
	results := make(chan result, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := e.resolver.Resolve(ctx, ptr("shared"))
			results <- result{u, err}
		}()
	}
	wg.Wait()
	close(results)

	for r := range results {
		require.NoError(t, r.err)
		require.NotNil(t, r.user)
		require.Equal(t, alice.ID, r.user.ID)
	}

	stored, err := st.Sessions().GetSessionByToken(ctx, "shared")
	require.NoError(t, err)
	require.Equal(t, clock.Now(), stored.LastActiveAt)
}
