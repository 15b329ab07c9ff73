package authsdk_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/aussiebroadwan/tabauth/internal/auth/http"
	"github.com/aussiebroadwan/tabauth/internal/auth/service"
	"github.com/aussiebroadwan/tabauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tabauth/pkg/authsdk"
)

func newTestClient(t *testing.T) *authsdk.SDKClient {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	sessions := &service.SessionService{Store: st}
	router := httpapi.NewRouter("test", st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.Resolver = &service.TokenResolver{Store: st}
	router.SessionService = sessions
	router.UserService = &service.UserService{Store: st, Sessions: sessions}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return authsdk.NewSDKClient(srv.URL + "/")
}

func TestClient_SessionLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := t.Context()

	account, first, err := client.CreateAccount(ctx, authsdk.CreateAccountRequest{
		Username: "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
		Origin:   "sdk",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, account.ID, first.Info().UserID)

	session, err := client.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token(), session.Token())
	require.NotNil(t, session.Info().Origin)
	assert.Equal(t, "sdk", *session.Info().Origin)

	current, err := session.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Info().ID, current.ID)

	refreshed, err := session.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Token(), refreshed.Token)

	profile, err := session.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)

	profile, err = session.UpdateProfile(ctx, "alice@new.example", "")
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example", profile.Email)

	require.NoError(t, session.Logout(ctx))

	_, err = session.Refresh(ctx)
	assert.True(t, authsdk.IsErrorType(err, authsdk.ErrorTypeNotAuthenticated), err)

	// The first session survives the second one's logout.
	resumed := client.ResumeSession(account.ID, first.Token())
	_, err = resumed.GetProfile(ctx)
	require.NoError(t, err)
}

func TestClient_LoginErrors(t *testing.T) {
	client := newTestClient(t)
	ctx := t.Context()

	_, _, err := client.CreateAccount(ctx, authsdk.CreateAccountRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, "bob", "wrong")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, authsdk.ErrorTypeInvalidCredentials, apiErr.Type)
	assert.NotEmpty(t, apiErr.Messages)

	_, err = client.Login(ctx, "", "")
	assert.True(t, authsdk.IsErrorType(err, authsdk.ErrorTypeInvalidCredentials), err)

	_, _, err = client.CreateAccount(ctx, authsdk.CreateAccountRequest{
		Username: "bob",
		Email:    "bob2@example.com",
		Password: "password1",
	})
	assert.True(t, authsdk.IsErrorType(err, authsdk.ErrorTypeValidation), err)
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t)

	live, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.NotNil(t, ready.Checks)
	assert.Equal(t, "ok", ready.Checks.Database)
}
