package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
	"github.com/aussiebroadwan/tabauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tabauth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: epoch} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// env bundles the services over one in-memory store.
type env struct {
	store    store.Store
	clock    *fakeClock
	auth     *Authenticator
	resolver *TokenResolver
	sessions *SessionService
	users    *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	clock := newFakeClock()
	sessions := &SessionService{Store: st, Clock: clock.Now}

	return &env{
		store:    st,
		clock:    clock,
		auth:     &Authenticator{Store: st},
		resolver: &TokenResolver{Store: st, Clock: clock.Now},
		sessions: sessions,
		users:    &UserService{Store: st, Sessions: sessions, Clock: clock.Now},
	}
}

func (e *env) seedUser(t *testing.T, username, password string, origin, lock *string) domain.User {
	t.Helper()

	digest, salt, err := cryptox.NewPasswordHash(password)
	require.NoError(t, err)

	u, err := e.store.Users().CreateUser(context.Background(), domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: digest,
		Salt:         salt,
		Origin:       origin,
		LockMessage:  lock,
		CreatedAt:    e.clock.Now(),
	})
	require.NoError(t, err)
	return u
}

func (e *env) login(t *testing.T, username, password string) domain.SessionView {
	t.Helper()

	view, err := e.sessions.StartSession(context.Background(), LoginRequest{
		Username: &username,
		Password: &password,
	})
	require.NoError(t, err)
	return view
}

// seedSession stores a session last active at lastActive.
func (e *env) seedSession(t *testing.T, userID int64, token string, lastActive time.Time) domain.Session {
	t.Helper()

	s, err := e.store.Sessions().CreateSession(context.Background(), domain.Session{
		UserID:       userID,
		Token:        token,
		StartedAt:    lastActive,
		LastActiveAt: lastActive,
	})
	require.NoError(t, err)
	return s
}

func (e *env) sessionExists(t *testing.T, token string) bool {
	t.Helper()

	_, err := e.store.Sessions().GetSessionByToken(context.Background(), token)
	if err == nil {
		return true
	}
	require.ErrorIs(t, err, store.ErrNotFound)
	return false
}

func requireAuthError(t *testing.T, err error, kind Kind, messages ...string) {
	t.Helper()

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, kind, authErr.Kind)
	if len(messages) > 0 {
		require.Equal(t, messages, authErr.Messages)
	}
}

func ptr[T any](v T) *T { return &v }
