package models

import "time"

// Overview is the aggregate document of the "overview" resource. The backend
// recomputes it from the other four resources on every read, which is why a
// write to any of them invalidates the cached overview.
type Overview struct {
	// ActiveSessions is the current session count of the account.
	ActiveSessions int `json:"active_sessions"`

	// SecurityAlerts is the number of security events in the current
	// audit window that warrant attention (failed logins, terminations).
	SecurityAlerts int `json:"security_alerts"`

	// LastLoginAt is the time of the most recent successful login.
	LastLoginAt time.Time `json:"last_login_at"`

	// ProfileCompletion is the share of filled profile fields, 0–100.
	ProfileCompletion int `json:"profile_completion"`

	// Theme mirrors the preference so the shell can style itself from the
	// overview alone.
	Theme string `json:"theme"`

	// RiskAlertThreshold mirrors the alerting preference.
	RiskAlertThreshold int `json:"risk_alert_threshold"`

	// TwoFactorEnabled mirrors the profile security flag.
	TwoFactorEnabled bool `json:"two_factor_enabled"`
}
