// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// risk-console stub API handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match the account record.
	MsgInvalidLoginPassword = "invalid login or password"

	// MsgNoUserIDProvided is returned when a handler requires a user ID (e.g.
	// extracted from the JWT claim) but none is present in the request
	// context.
	MsgNoUserIDProvided = "no user ID was given"

	// MsgPatchBodyNotRead is returned when the merge-patch body of a settings
	// write cannot be read from the request.
	MsgPatchBodyNotRead = "error reading patch body"

	// MsgEmptyPatchBody is returned when a settings write arrives with no
	// patch document at all.
	MsgEmptyPatchBody = "empty patch body"

	// MsgActionBodyNotRead is returned when the body of a resource action
	// cannot be read from the request.
	MsgActionBodyNotRead = "error reading action body"
)
