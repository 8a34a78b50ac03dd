package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/models"
)

// AuthService defines the client-side contract for logging into the settings
// API and keeping the login usable across restarts.
type AuthService interface {
	// Login authenticates against the settings API, stores the bearer token
	// in the gateway, and persists the session locally so the next start can
	// restore it without asking for the password again.
	// A failure to persist is logged but does not fail the login.
	Login(ctx context.Context, creds models.Credentials) (models.Token, error)

	// Restore loads the locally saved session and, if the token is still
	// valid, installs it into the gateway.
	// Returns ErrNotAuthenticated when nothing usable is stored.
	Restore(ctx context.Context) (models.Token, error)

	// Logout clears the gateway token and deletes the saved session.
	Logout(ctx context.Context) error
}

// MutationExecutor defines the optimistic write path of the engine. Exactly
// one mutation per resource may be in flight; a second concurrent write is
// rejected with ErrMutationPending, never queued.
type MutationExecutor interface {
	// Mutate applies an RFC 7386 merge patch to an editable resource:
	// the merged document becomes visible immediately, the patch goes to the
	// backend, and the response either commits (replacing the optimistic
	// value with the authoritative one and invalidating tag-sharing sibling
	// resources) or rolls the cache back to the byte-exact pre-write value.
	// A rejected write is reported as ErrMutationRejected wrapping the
	// gateway error; rollback has already completed by the time it returns.
	Mutate(ctx context.Context, id models.ResourceID, patch json.RawMessage) (models.Snapshot, error)

	// Execute runs a non-CRUD action of a resource (e.g. terminating
	// sessions) with the same serialisation, commit, and invalidation
	// discipline as Mutate. body may be nil for actions without parameters.
	Execute(ctx context.Context, id models.ResourceID, action string, body json.RawMessage) (models.Snapshot, error)
}

// AutoSaveCoordinator defines the debounced edit-session layer between an
// edit surface and the MutationExecutor. One session exists per resource;
// all drafted fields of a session are saved together as one merge patch.
type AutoSaveCoordinator interface {
	// OnFieldChange records a draft value for one field, validates it
	// synchronously, and (re)starts the debounce timer. The first change of
	// a session freezes background refreshes of the resource until the
	// session ends. The returned error is the validation failure of this
	// field, if any; an invalid draft is kept and shown, it just blocks
	// persistence until fixed.
	OnFieldChange(ctx context.Context, id models.ResourceID, field string, value any) error

	// SaveNow persists the session immediately, bypassing the debounce
	// timer but not the validation gate.
	// Returns ErrNoEditSession when nothing is being edited,
	// ErrInvalidDraft while any field fails validation.
	SaveNow(ctx context.Context, id models.ResourceID) error

	// Cancel drops the session without saving and releases the edit hold,
	// so buffered background refreshes apply.
	Cancel(id models.ResourceID) error

	// Session returns a copy of the active edit session of a resource,
	// or false when none exists.
	Session(id models.ResourceID) (models.EditSessionView, bool)

	// Sessions returns a copy of every active edit session.
	Sessions() []models.EditSessionView

	// Close cancels every active session. Used on shutdown.
	Close()
}

// SyncOrchestrator is the aggregate control surface over all composed
// resources and the home of the reconnect watcher.
type SyncOrchestrator interface {
	// Subscribe registers interest in a resource and starts its poller.
	Subscribe(id models.ResourceID, cfg models.SubscriptionConfig) (*cache.Subscription, error)

	// Read returns the current snapshot of one resource without fetching.
	Read(id models.ResourceID) (models.Snapshot, error)

	// Resources returns the snapshot of every composed resource.
	Resources() []models.Snapshot

	// Status reduces all snapshots to one line: loading if any resource is
	// loading, connected only while no resource is in error state, and the
	// most recent successful fetch time.
	Status() models.AggregateStatus

	// RefreshAll refetches every composed resource concurrently. Failures
	// stay independent per resource; the joined error is returned after all
	// fetches complete.
	RefreshAll(ctx context.Context) error

	// InvalidateByTags marks every resource carrying any of the tags stale
	// and kicks their pollers.
	InvalidateByTags(tags ...models.Tag)

	// SetActive pauses (false) or resumes (true) all background polling,
	// e.g. when the console window loses focus. Values stay readable.
	SetActive(active bool)

	// WatchReconnect blocks until ctx is done, probing backend health
	// whenever the engine looks disconnected and refetching subscribed
	// resources once the backend answers again.
	WatchReconnect(ctx context.Context)
}

// JournalService buffers sync journal events emitted by the engine and
// flushes them to local storage in batches. Record is called with the cache
// mutex held, so it must stay non-blocking; everything that can touch the
// database lives in Flush.
type JournalService interface {
	// Record buffers one event, stamping EventID and time if unset.
	Record(event models.JournalEvent)

	// Flush writes all buffered events to storage. On failure the batch is
	// kept for the next flush.
	Flush(ctx context.Context) error

	// Pending returns the number of buffered, not yet flushed events.
	Pending() int

	// Recent returns up to limit persisted events, newest first.
	Recent(ctx context.Context, limit int) ([]models.JournalEvent, error)
}
