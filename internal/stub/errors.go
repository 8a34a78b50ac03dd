// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package stub

import "errors"

// Sentinel errors of the in-memory settings store. The HTTP layer maps them
// to response statuses in errors_mapper.go; callers match with [errors.Is].
var (
	// ErrInvalidCredentials is returned by Authenticate when the login is
	// unknown or the password does not match its bcrypt hash.
	ErrInvalidCredentials = errors.New("invalid login or password")

	// ErrUnknownUser is returned when a valid token references an account
	// the store does not hold.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownResource is returned for a resource id outside the five
	// console resources.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrResourceNotEditable is returned for a PATCH against a read-only
	// resource.
	ErrResourceNotEditable = errors.New("resource is not editable")

	// ErrBadPatch is returned when the request body is not a valid RFC 7386
	// merge patch for the resource document.
	ErrBadPatch = errors.New("malformed merge patch")

	// ErrUnknownAction is returned when the resource does not declare the
	// requested action.
	ErrUnknownAction = errors.New("action is not supported by the resource")

	// ErrBadActionBody is returned when an action body is missing required
	// parameters or is not valid JSON.
	ErrBadActionBody = errors.New("malformed action body")

	// ErrSessionNotFound is returned by the terminate action for an unknown
	// session identifier.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCurrentSession is returned by the terminate action when the target
	// is the caller's own session. The current session is never revoked.
	ErrCurrentSession = errors.New("cannot terminate the current session")
)

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header.
var (
	// ErrEmptyAuthorizationHeader is returned when the incoming request does
	// not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the header is present
	// but cannot be split into scheme and token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the scheme prefix is present but the
	// token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
