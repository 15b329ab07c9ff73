package authsdk

import "time"

// SessionInfo describes a session as returned by the service.
type SessionInfo struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Token        string    `json:"token"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	Origin       *string   `json:"origin"`
}

// UserInfo is a user profile.
type UserInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Origin    *string   `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is returned on account creation.
type Account struct {
	UserInfo
	Session SessionInfo `json:"session"`
}

// CreateAccountRequest is the body of POST /api/users.
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Origin   string `json:"origin,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
