package models

import "time"

// Credentials is the login request body of POST /api/auth/login.
type Credentials struct {
	// Login is the unique account login identifier.
	Login string `json:"login"`

	// Password is the account password. Transmitted once at login and
	// never stored by the client.
	Password string `json:"password"`
}

// User is an account record of the settings API. The stub keeps users in
// memory; a production backend would keep them wherever it keeps accounts.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON.
	UserID int64 `json:"-"`

	// Login is the unique account login identifier.
	Login string `json:"login"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// PasswordHash is the bcrypt hash of the account password.
	// It must never be exposed via JSON.
	PasswordHash string `json:"-"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
}
