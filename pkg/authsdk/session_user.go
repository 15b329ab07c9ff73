package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (s *Session) profilePath() string {
	return "/api/user/" + strconv.FormatInt(s.Info().UserID, 10)
}

// GetProfile retrieves the profile of the session's user.
func (s *Session) GetProfile(ctx context.Context) (*UserInfo, error) {
	path := s.profilePath() + "?" + url.Values{"token": {s.Token()}}.Encode()

	resp, err := s.client.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := decodeEnvelope(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile sets the user's email and, when password is non-empty, their
// password.
func (s *Session) UpdateProfile(ctx context.Context, email, password string) (*UserInfo, error) {
	body := map[string]string{
		"token": s.Token(),
		"email": email,
	}
	if password != "" {
		body["password"] = password
	}

	resp, err := s.client.doRequest(ctx, http.MethodPut, s.profilePath(), body)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := decodeEnvelope(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
