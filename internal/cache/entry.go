package cache

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-risk-console/models"
)

// entry is the mutable state of one tracked resource. Every field is guarded
// by the owning Cache's mutex; entry methods assume the lock is held.
type entry struct {
	id   models.ResourceID
	tags []models.Tag

	value     json.RawMessage
	fetchedAt time.Time
	status    models.ResourceStatus
	lastErr   error
	stale     bool

	subscriberCount int
	cfg             models.SubscriptionConfig
	defaultInterval time.Duration

	// editing freezes the public view: inbound fetch results are parked in
	// buffered (newest flight wins) until the edit hold ends.
	editing  bool
	buffered *fetchResult

	// mutationPending serializes writes per resource; lastCommit orders
	// fetch results against the most recent committed write.
	mutationPending bool
	lastCommit      time.Time

	poller *poller
}

// fetchResult is one completed backend read. startedAt is when the request
// was issued, which decides whether the result is still relevant by the time
// it lands.
type fetchResult struct {
	value     json.RawMessage
	err       error
	startedAt time.Time
	fetchedAt time.Time
}

// applyFetch installs a successful fetch result as the current value.
func (e *entry) applyFetch(fr *fetchResult) {
	e.value = fr.value
	e.fetchedAt = fr.fetchedAt
	e.status = models.StatusSuccess
	e.stale = false
	e.lastErr = nil
}

// snapshot returns a detached read copy of the entry. The value bytes are
// cloned so callers can hold snapshots across lock boundaries.
func (e *entry) snapshot() models.Snapshot {
	var tags []models.Tag
	if len(e.tags) > 0 {
		tags = make([]models.Tag, len(e.tags))
		copy(tags, e.tags)
	}

	return models.Snapshot{
		ID:        e.id,
		Value:     bytes.Clone(e.value),
		FetchedAt: e.fetchedAt,
		Status:    e.status,
		Stale:     e.stale,
		Tags:      tags,
		LastError: e.lastErr,
	}
}
