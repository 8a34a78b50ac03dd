// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Kinds of entries in the local sync journal. The journal records what the
// engine did with every fetch and write so that sync problems can be
// diagnosed after the fact.
const (
	JournalFetchApplied   = "fetch_applied"
	JournalFetchFailed    = "fetch_failed"
	JournalFetchBuffered  = "fetch_buffered"
	JournalFetchDiscarded = "fetch_discarded"
	JournalCommit         = "commit"
	JournalRollback       = "rollback"
	JournalInvalidated    = "invalidated"
	JournalReconnected    = "reconnected"
)

// JournalEvent is one record of the local sync journal.
type JournalEvent struct {
	// EventID is the unique identifier of the record.
	EventID string `json:"event_id"`

	// ResourceID is the resource the event concerns, empty for
	// engine-wide events such as reconnects.
	ResourceID ResourceID `json:"resource_id,omitempty"`

	// Kind is one of the Journal* constants.
	Kind string `json:"kind"`

	// Detail is a short free-form note, e.g. the error text of a failed
	// fetch or the tags of an invalidation.
	Detail string `json:"detail,omitempty"`

	// At is when the event happened inside the engine, not when it was
	// flushed to the database.
	At time.Time `json:"at"`
}

// TableName returns the name of the local database table
// associated with the JournalEvent model.
func (e JournalEvent) TableName() string {
	return "sync_journal"
}
