package models

import "time"

// FieldState is the per-field step of the auto-save state machine.
//
// Clean → Editing → {Valid, Invalid} → Saving → {Saved, SaveFailed}.
// Validation runs synchronously inside the edit call, so the transient
// "validating" step is never observable from outside.
type FieldState string

const (
	FieldClean      FieldState = "clean"
	FieldEditing    FieldState = "editing"
	FieldValid      FieldState = "valid"
	FieldInvalid    FieldState = "invalid"
	FieldSaving     FieldState = "saving"
	FieldSaved      FieldState = "saved"
	FieldSaveFailed FieldState = "save_failed"
)

// FieldDraft is the unsaved value of one edited field.
type FieldDraft struct {
	// Value is the draft value as entered, not yet persisted.
	Value any `json:"value"`

	// State is the auto-save state of this field.
	State FieldState `json:"state"`

	// Error is the validation message when State is FieldInvalid,
	// or the save failure message when State is FieldSaveFailed.
	Error string `json:"error,omitempty"`
}

// EditSessionView is a copy of an active edit session, safe to hand to a
// presentation layer.
type EditSessionView struct {
	// ResourceID is the resource under edit.
	ResourceID ResourceID `json:"resource_id"`

	// Fields holds the draft of every touched field, keyed by field name.
	Fields map[string]FieldDraft `json:"fields"`

	// Dirty reports whether any draft differs from the last saved state.
	// While true, background refresh results for the resource are buffered
	// instead of applied.
	Dirty bool `json:"dirty"`

	// LastSavedAt is when the session last persisted successfully,
	// zero if it never has.
	LastSavedAt time.Time `json:"last_saved_at"`
}
