package domain

import "time"

const (
	// ResolveWindow bounds how long a session may sit idle and still identify
	// its user on an ordinary request.
	ResolveWindow = 7 * 24 * time.Hour

	// ExpiryWindow bounds how long a session may sit idle and still be
	// refreshed. Sessions idle beyond it are deleted.
	ExpiryWindow = 14 * 24 * time.Hour
)

// Session is an opaque bearer token bound to one user.
type Session struct {
	ID           int64
	UserID       int64
	Token        string
	StartedAt    time.Time
	LastActiveAt time.Time
}

// IdleFor reports how long the session has gone unused as of now.
func (s Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActiveAt)
}

// Expired reports whether the session is idle beyond ExpiryWindow.
func (s Session) Expired(now time.Time) bool {
	return s.IdleFor(now) > ExpiryWindow
}

// ActivityAt returns the last-active timestamp to record for a use at now.
// It never precedes StartedAt.
func (s Session) ActivityAt(now time.Time) time.Time {
	if now.Before(s.StartedAt) {
		return s.StartedAt
	}
	return now
}

// SessionView is the client-facing shape of a Session. Origin is copied from
// the owning user.
type SessionView struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Token        string    `json:"token"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	Origin       *string   `json:"origin"`
}

func NewSessionView(s Session, origin *string) SessionView {
	return SessionView{
		ID:           s.ID,
		UserID:       s.UserID,
		Token:        s.Token,
		StartedAt:    s.StartedAt,
		LastActiveAt: s.LastActiveAt,
		Origin:       origin,
	}
}
