package models

import "time"

// Resource actions exposed by the settings API beyond plain reads and
// partial updates. Actions are POSTed and never retried automatically.
const (
	// ActionTerminateOthers revokes every session of the account except the
	// current one.
	ActionTerminateOthers = "terminate-others"

	// ActionTerminate revokes one session by its identifier.
	ActionTerminate = "terminate"
)

// ResourceDescriptor declares one resource known to the engine: its
// invalidation tags, default polling cadence, and write capabilities.
type ResourceDescriptor struct {
	// ID is the resource identifier, also its path segment in the API.
	ID ResourceID

	// Tags are the invalidation groups this resource belongs to.
	Tags []Tag

	// Interval is the default polling period used when the subscriber does
	// not override it.
	Interval time.Duration

	// Editable marks resources that accept partial updates (PATCH).
	Editable bool

	// Actions lists the non-CRUD operations the resource accepts.
	Actions []string
}

// DefaultDescriptors returns the registry of the five console resources.
//
// Intervals reflect how quickly each document goes stale server-side:
// session and audit data move fast, account settings rarely change, and the
// overview aggregates all of them.
func DefaultDescriptors() []ResourceDescriptor {
	return []ResourceDescriptor{
		{
			ID:       ResourcePreferences,
			Tags:     []Tag{TagUserPreferences},
			Interval: 5 * time.Minute,
			Editable: true,
		},
		{
			ID:       ResourceProfile,
			Tags:     []Tag{TagUserProfile},
			Interval: 5 * time.Minute,
			Editable: true,
		},
		{
			ID:       ResourceSessions,
			Tags:     []Tag{TagSecurity},
			Interval: 30 * time.Second,
			Actions:  []string{ActionTerminateOthers, ActionTerminate},
		},
		{
			ID:       ResourceSecurityEvents,
			Tags:     []Tag{TagSecurity},
			Interval: 45 * time.Second,
			Actions:  nil,
		},
		{
			ID:       ResourceOverview,
			Tags:     []Tag{TagUserPreferences, TagUserProfile, TagSecurity},
			Interval: time.Minute,
		},
	}
}
