package service

import (
	"errors"
	"strings"
)

// Kind is the stable wire tag of an AuthError.
type Kind string

const (
	KindInvalidCredentialsFormat Kind = "invalid_credentials_format"
	KindInvalidCredentials       Kind = "invalid_credentials"
	KindAccountLock              Kind = "account_lock"
	KindNotAuthenticated         Kind = "not_authenticated"
	KindInvalidToken             Kind = "invalid_token"
	KindValidation               Kind = "validation_error"
)

// AuthError is an expected, client-facing failure. Messages are safe to
// return to the caller verbatim.
type AuthError struct {
	Kind     Kind
	Messages []string
}

func NewAuthError(kind Kind, messages ...string) *AuthError {
	return &AuthError{Kind: kind, Messages: messages}
}

func (e *AuthError) Error() string {
	if len(e.Messages) == 0 {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + strings.Join(e.Messages, "; ")
}

// Is matches any AuthError of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidCredentialsFormat = &AuthError{Kind: KindInvalidCredentialsFormat}
	ErrInvalidCredentials       = &AuthError{Kind: KindInvalidCredentials}
	ErrAccountLocked            = &AuthError{Kind: KindAccountLock}
	ErrNotAuthenticated         = &AuthError{Kind: KindNotAuthenticated}
	ErrInvalidToken             = &AuthError{Kind: KindInvalidToken}
	ErrValidation               = &AuthError{Kind: KindValidation}

	// ErrTokenCollision is returned when a freshly generated session token is
	// already stored. It is internal and never shown to clients.
	ErrTokenCollision = errors.New("session token collision")
)

const (
	msgNoUsername         = "no valid username provided"
	msgNoPassword         = "no valid password provided"
	msgBadCredentials     = "no valid username or password provided"
	msgNotAuthenticated   = "not authenticated for this request"
	msgNoToken            = "no valid token provided"
	msgAccountFields      = "username, email, and password are all required string fields"
	msgUsernameEmpty      = "username must not be empty"
	msgUsernameInUse      = "username already in use: "
	msgEmailNotString     = "email invalid: must be a string"
	msgEmailInvalid       = "email invalid: "
	msgPasswordNotString  = "password must be a string"
	msgPasswordTooShort   = "password must be at least 8 characters"
	defaultLockMessage    = "account locked"
	minProfilePasswordLen = 8
)

// NotAuthenticatedError is returned when a request lacks the identity an
// operation needs.
func NotAuthenticatedError() error { return NewAuthError(KindNotAuthenticated, msgNotAuthenticated) }

func InvalidTokenError() error { return NewAuthError(KindInvalidToken, msgNoToken) }

func errInvalidCredentials() error { return NewAuthError(KindInvalidCredentials, msgBadCredentials) }

// AccountFieldsError is the format error for an account creation payload
// missing one of its required string fields.
func AccountFieldsError() error { return NewAuthError(KindInvalidCredentialsFormat, msgAccountFields) }
