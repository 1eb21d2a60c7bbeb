package domain

import "time"

// Role is the authorization role carried by an account and its session token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Caller is the resolved identity behind a request.
type Caller struct {
	AccountID string
	Role      Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Session is an issued session token.
type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"accountID"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
