package models

import "time"

// Kinds of entries in the security audit trail.
const (
	EventLogin             = "login"
	EventLoginFailed       = "login_failed"
	EventPasswordChanged   = "password_changed"
	EventSessionTerminated = "session_terminated"
	EventSettingsChanged   = "settings_changed"
)

// SecurityEventList is the document of the "security-events" resource.
// The backend returns a bounded window of recent events, newest first.
type SecurityEventList struct {
	Events []SecurityEvent `json:"events"`
	Total  int             `json:"total"`
}

// SecurityEvent is one entry of the audit trail.
type SecurityEvent struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent,omitempty"`
	At        time.Time `json:"at"`
}
