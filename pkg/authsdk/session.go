package authsdk

import (
	"context"
	"net/http"
	"sync"
)

// Session is a logged-in session token.
type Session struct {
	client *SDKClient

	mu   sync.RWMutex
	info SessionInfo
}

func newSession(client *SDKClient, info SessionInfo) *Session {
	return &Session{client: client, info: info}
}

// Token returns the session token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info.Token
}

// Info returns the session as last reported by the service.
func (s *Session) Info() SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Current fetches the session for this token without creating a new one.
func (s *Session) Current(ctx context.Context) (*SessionInfo, error) {
	return s.sessionRequest(ctx, http.MethodPost)
}

// Refresh marks the session active. It fails with invalid_token once the
// session has been idle too long and the service has deleted it.
func (s *Session) Refresh(ctx context.Context) (*SessionInfo, error) {
	return s.sessionRequest(ctx, http.MethodPut)
}

// Logout deletes this session on the service.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/api/sessions", map[string]string{
		"token": s.Token(),
	})
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, nil)
}

func (s *Session) sessionRequest(ctx context.Context, method string) (*SessionInfo, error) {
	resp, err := s.client.doRequest(ctx, method, "/api/sessions", map[string]string{
		"token": s.Token(),
	})
	if err != nil {
		return nil, err
	}

	var info SessionInfo
	if err := decodeEnvelope(resp, &info); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.info = info
	s.mu.Unlock()

	return &info, nil
}
