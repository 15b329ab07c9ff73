package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the TabAuth session service.
// It provides access to unauthenticated operations and creates Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges a username and password for a new session.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/sessions", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var info SessionInfo
	if err := decodeEnvelope(resp, &info); err != nil {
		return nil, err
	}

	return newSession(c, info), nil
}

// CreateAccount registers a user. The returned session is already logged in.
func (c *SDKClient) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, *Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/users", req)
	if err != nil {
		return nil, nil, err
	}

	var account Account
	if err := decodeEnvelope(resp, &account); err != nil {
		return nil, nil, err
	}

	return &account, newSession(c, account.Session), nil
}

// ResumeSession wraps a token obtained earlier. Nothing is checked until the
// session is used.
func (c *SDKClient) ResumeSession(userID int64, token string) *Session {
	return newSession(c, SessionInfo{UserID: userID, Token: token})
}
