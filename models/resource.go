// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// ResourceID identifies one remote settings resource tracked by the cache.
type ResourceID string

const (
	// ResourcePreferences is the user's notification and display preferences.
	ResourcePreferences ResourceID = "preferences"

	// ResourceProfile is the user's account profile.
	ResourceProfile ResourceID = "profile"

	// ResourceSessions is the list of active sessions of the account.
	ResourceSessions ResourceID = "sessions"

	// ResourceSecurityEvents is the recent security audit trail.
	ResourceSecurityEvents ResourceID = "security-events"

	// ResourceOverview is the aggregate dashboard document computed by the
	// backend from the other four resources.
	ResourceOverview ResourceID = "overview"
)

// Tag groups resources whose server-side state overlaps. A successful write
// to one resource invalidates every other resource sharing at least one tag.
type Tag string

const (
	TagUserPreferences Tag = "user-preferences"
	TagUserProfile     Tag = "user-profile"
	TagSecurity        Tag = "security"
)

// ResourceStatus is the lifecycle state of a cached resource.
type ResourceStatus string

const (
	// StatusIdle means the resource has never been fetched.
	StatusIdle ResourceStatus = "idle"

	// StatusLoading means a fetch is in flight and no previous value exists.
	// A refresh of an already-loaded resource keeps StatusSuccess.
	StatusLoading ResourceStatus = "loading"

	// StatusSuccess means the cached value was confirmed by the backend.
	StatusSuccess ResourceStatus = "success"

	// StatusError means the most recent fetch or write failed. The previous
	// value, if any, is retained.
	StatusError ResourceStatus = "error"
)

// Snapshot is the read view of one cached resource. It is a copy: mutating
// it never affects the cache.
type Snapshot struct {
	// ID is the resource this snapshot describes.
	ID ResourceID `json:"id"`

	// Value is the last known JSON document, nil before the first
	// successful fetch. When Status is StatusError it holds the value that
	// was current before the failure.
	Value json.RawMessage `json:"value,omitempty"`

	// FetchedAt is when Value was confirmed by the backend. Zero before the
	// first successful fetch. A committed mutation also refreshes it, since
	// the committed document comes from the backend.
	FetchedAt time.Time `json:"fetched_at"`

	// Status is the lifecycle state. Status == StatusSuccess implies
	// Value != nil and FetchedAt is non-zero.
	Status ResourceStatus `json:"status"`

	// Stale marks a value that was invalidated and not yet refetched.
	// A stale value is still readable.
	Stale bool `json:"stale"`

	// Tags are the invalidation groups of the resource.
	Tags []Tag `json:"tags,omitempty"`

	// LastError is the error of the most recent failed fetch or write,
	// nil while Status != StatusError. In-process only.
	LastError error `json:"-"`
}

// SubscriptionConfig controls background polling for one resource.
type SubscriptionConfig struct {
	// Interval is the polling period. Changes take effect on the next
	// scheduling cycle of the poller.
	Interval time.Duration `json:"interval"`

	// Enabled pauses polling when false. Pausing keeps the cached value.
	Enabled bool `json:"enabled"`

	// RefetchOnReconnect causes an immediate refetch when connectivity to
	// the backend is restored after an outage.
	RefetchOnReconnect bool `json:"refetch_on_reconnect"`
}
