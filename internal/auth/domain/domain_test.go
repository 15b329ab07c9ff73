package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUserViewOmitsSecrets(t *testing.T) {
	origin := "web"
	u := User{
		ID:           3,
		Username:     "alice",
		Email:        "a@x.io",
		PasswordHash: []byte{1, 2, 3},
		Salt:         []byte{4, 5, 6},
		Origin:       &origin,
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(NewUserView(u))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.ElementsMatch(t,
		[]string{"id", "username", "email", "origin", "created_at"},
		keys(got),
	)
	require.Equal(t, "web", got["origin"])
}

func TestAccountViewNestsSession(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := User{ID: 1, Username: "bob", Email: "b@x.io", CreatedAt: now}
	s := Session{ID: 9, UserID: 1, Token: "tok", StartedAt: now, LastActiveAt: now}

	data, err := json.Marshal(AccountView{UserView: NewUserView(u), Session: NewSessionView(s, u.Origin)})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotContains(t, got, "password_hash")
	require.NotContains(t, got, "salt")
	require.Equal(t, "bob", got["username"])

	sess, ok := got["session"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "tok", sess["token"])
	require.EqualValues(t, 1, sess["user_id"])
	require.Contains(t, sess, "origin")
	require.Nil(t, sess["origin"])
}

func TestSessionWindows(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session{StartedAt: start, LastActiveAt: start}

	require.False(t, s.Expired(start.Add(ExpiryWindow)))
	require.True(t, s.Expired(start.Add(ExpiryWindow+time.Microsecond)))
	require.Equal(t, 8*24*time.Hour, s.IdleFor(start.Add(8*24*time.Hour)))

	require.Equal(t, start, s.ActivityAt(start.Add(-time.Hour)))
	require.Equal(t, start.Add(time.Hour), s.ActivityAt(start.Add(time.Hour)))
}

func TestUserLockedAndNormalize(t *testing.T) {
	msg := "banned"
	require.False(t, User{}.Locked())
	require.True(t, User{LockMessage: &msg}.Locked())
	require.Equal(t, "alice", NormalizeUsername("ALiCe"))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
