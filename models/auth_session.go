package models

import "time"

// AuthSession is the saved login state of the client application, persisted
// locally so a restart does not require a new login while the token is
// still valid. The engine itself never touches it.
type AuthSession struct {
	// Login is the account the session belongs to.
	Login string `json:"login"`

	// Token is the compact JWS bearer token issued at login.
	Token string `json:"token"`

	// SavedAt is when the session was persisted.
	SavedAt time.Time `json:"saved_at"`

	// ExpiresAt is the token expiry, zero when the token carries none.
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the saved session can still authenticate requests
// at the given time.
func (s AuthSession) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// TableName returns the name of the local database table
// associated with the AuthSession model.
func (s AuthSession) TableName() string {
	return "auth_sessions"
}
