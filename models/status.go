package models

import "time"

// AggregateStatus summarizes the whole engine for a status bar.
type AggregateStatus struct {
	// IsLoading is true while any tracked resource is fetching.
	IsLoading bool `json:"is_loading"`

	// IsConnected is false when any tracked resource is in error state.
	IsConnected bool `json:"is_connected"`

	// LastUpdate is the most recent successful fetch time across all
	// tracked resources, zero when nothing has loaded yet.
	LastUpdate time.Time `json:"last_update"`
}
