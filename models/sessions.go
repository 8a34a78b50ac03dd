// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SessionList is the document of the "sessions" resource.
type SessionList struct {
	// Sessions are the active sessions of the account, newest first.
	Sessions []ActiveSession `json:"sessions"`

	// Total is the number of entries in Sessions.
	Total int `json:"total"`
}

// ActiveSession describes one authenticated device session.
type ActiveSession struct {
	// SessionID is the opaque identifier used by the terminate action.
	SessionID string `json:"session_id"`

	// Device is a human-readable client description (browser, OS).
	Device string `json:"device"`

	// IP is the last seen remote address of the session.
	IP string `json:"ip"`

	// Location is a coarse geo label derived from IP, may be empty.
	Location string `json:"location,omitempty"`

	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`

	// LastSeenAt is the time of the most recent request.
	LastSeenAt time.Time `json:"last_seen_at"`

	// Current marks the session the caller is using right now.
	// The terminate actions never revoke the current session.
	Current bool `json:"current"`
}
