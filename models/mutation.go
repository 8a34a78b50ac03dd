package models

import (
	"encoding/json"
	"time"
)

// MutationStatus is the lifecycle state of a pending write.
type MutationStatus string

const (
	MutationPending    MutationStatus = "pending"
	MutationCommitted  MutationStatus = "committed"
	MutationRolledBack MutationStatus = "rolledback"
)

// PendingMutation records one optimistic write from submission to its
// terminal state. At most one pending mutation exists per resource; a second
// concurrent write is rejected, never queued.
type PendingMutation struct {
	// ID is the unique identifier of this mutation attempt.
	ID string `json:"id"`

	// ResourceID is the resource being written.
	ResourceID ResourceID `json:"resource_id"`

	// Patch is the RFC 7386 merge patch submitted by the caller.
	Patch json.RawMessage `json:"patch,omitempty"`

	// OptimisticValue is the locally predicted post-write document,
	// displayed while the backend call is in flight.
	OptimisticValue json.RawMessage `json:"optimistic_value,omitempty"`

	// PreviousValue is the byte-exact cached document at submission time.
	// Rollback restores exactly these bytes.
	PreviousValue json.RawMessage `json:"previous_value,omitempty"`

	// SubmittedAt is when the mutation was accepted by the executor.
	SubmittedAt time.Time `json:"submitted_at"`

	// Status is the lifecycle state of the mutation.
	Status MutationStatus `json:"status"`
}
