package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT bearer token with the accessors the client and the stub
// server need during authentication.
//
// It embeds [jwt.Token] for signing and parsing and [jwt.RegisteredClaims]
// for standard claim access. SignedString holds the compact serialized form
// ready for the Authorization header; UserID caches the parsed "sub" claim.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Only the compact string form is meaningful outside the process.
	*jwt.Token `json:"-"`

	// RegisteredClaims gives access to the RFC 7519 claim set.
	jwt.RegisteredClaims

	// SignedString is the compact JWS representation
	// (base64url header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the account identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (t *Token) GetUserID() (int64, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// ExpiresAt returns the "exp" claim time, zero when the claim is absent.
func (t *Token) ExpiresAt() time.Time {
	if t.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return t.RegisteredClaims.ExpiresAt.Time
}

// Expired reports whether the token expiry has passed at the given time.
// Tokens without an "exp" claim never expire.
func (t *Token) Expired(now time.Time) bool {
	expiresAt := t.ExpiresAt()
	return !expiresAt.IsZero() && now.After(expiresAt)
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
