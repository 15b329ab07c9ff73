package domain

import (
	"strings"
	"time"
)

// User is an account holder. PasswordHash and Salt never leave the service
// layer; use NewUserView for anything rendered to a client.
type User struct {
	ID           int64
	Username     string // always lowercase
	Email        string
	PasswordHash []byte // SHA-512(password || salt)
	Salt         []byte
	Origin       *string
	LockMessage  *string // non-nil means the account is locked
	CreatedAt    time.Time
}

// Locked reports whether the account refuses new logins.
func (u User) Locked() bool {
	return u.LockMessage != nil
}

// NormalizeUsername folds a username to the stored form.
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}

// UserView is the client-facing shape of a User.
type UserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Origin    *string   `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserView(u User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Origin:    u.Origin,
		CreatedAt: u.CreatedAt,
	}
}

// AccountView is returned on account creation: the new user plus the session
// opened for it.
type AccountView struct {
	UserView
	Session SessionView `json:"session"`
}
