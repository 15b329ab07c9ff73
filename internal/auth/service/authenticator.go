package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
	"github.com/aussiebroadwan/tabauth/pkg/cryptox"
	"github.com/aussiebroadwan/tabauth/pkg/slogx"
)

// Credentials is a username and password pair that has passed format checks.
type Credentials struct {
	Username string
	Password string
}

// ParseCredentials checks that both fields were supplied as strings. The
// username is checked first.
func ParseCredentials(username, password *string) (Credentials, error) {
	if username == nil {
		return Credentials{}, NewAuthError(KindInvalidCredentialsFormat, msgNoUsername)
	}
	if password == nil {
		return Credentials{}, NewAuthError(KindInvalidCredentialsFormat, msgNoPassword)
	}
	return Credentials{Username: *username, Password: *password}, nil
}

// dummySalt keeps the unknown-user path doing the same hashing work as a
// real verification.
var dummySalt = make([]byte, cryptox.SaltSize)

type Authenticator struct {
	Store store.Store
}

// Authenticate verifies creds against the stored account. Unknown users and
// wrong passwords yield the same error. The lock is only reported once the
// password has been verified.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (user domain.User, err error) {
	err = a.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err = authenticate(ctx, tx.Users(), creds)
		return err
	})
	return user, err
}

func authenticate(ctx context.Context, users store.Users, creds Credentials) (domain.User, error) {
	l := slogx.FromContext(ctx)
	username := domain.NormalizeUsername(creds.Username)

	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(creds.Password, dummySalt, nil)
			l.Info("login rejected", slog.String("username", username), slog.String("reason", "unknown user"))
			return domain.User{}, errInvalidCredentials()
		}
		return domain.User{}, err
	}

	if !cryptox.VerifyPassword(creds.Password, user.Salt, user.PasswordHash) {
		l.Info("login rejected", slog.Int64("user_id", user.ID), slog.String("reason", "bad password"))
		return domain.User{}, errInvalidCredentials()
	}

	if user.Locked() {
		l.Info("login rejected", slog.Int64("user_id", user.ID), slog.String("reason", "locked"))
		return domain.User{}, NewAuthError(KindAccountLock, *user.LockMessage)
	}

	return user, nil
}
