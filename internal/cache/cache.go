// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache implements the resource cache at the core of the settings
// synchronization engine: the single source of truth for the last-known
// state of every remote resource the console tracks.
//
// One [Cache] holds an entry per registered resource with its value (the
// backend's JSON document, byte-for-byte), freshness metadata, status, and
// invalidation tags. Subscribers attach per-resource polling; concurrent
// fetches of one resource coalesce into a single backend request; writes go
// through the mutation hooks (TryBeginMutation / ApplyOptimistic / Commit /
// Rollback) used by the mutation executor; edit holds (BeginEdit / EndEdit)
// let the auto-save coordinator freeze a resource's public view while the
// user is typing, with inbound refreshes buffered instead of dropped.
//
// All state lives behind one mutex and every exported operation is atomic
// under it. Network I/O always happens outside the lock, so independent
// resources fetch and mutate concurrently without blocking each other.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/models"
	"golang.org/x/sync/singleflight"
)

// Cache tracks the registered resources of one engine instance. Construct
// with [NewCache]; the zero value is not usable.
type Cache struct {
	fetcher  Fetcher
	recorder Recorder
	logger   *logger.Logger

	mu      sync.Mutex
	entries map[models.ResourceID]*entry
	ids     []models.ResourceID
	active  bool

	group singleflight.Group
}

// NewCache builds a cache with one entry per descriptor. Entries start idle
// with no value; polling begins on the first Subscribe. recorder may be nil
// when no journal is attached.
func NewCache(fetcher Fetcher, descriptors []models.ResourceDescriptor, recorder Recorder, log *logger.Logger) *Cache {
	c := &Cache{
		fetcher:  fetcher,
		recorder: recorder,
		logger:   log,
		entries:  make(map[models.ResourceID]*entry, len(descriptors)),
		active:   true,
	}

	for _, d := range descriptors {
		c.entries[d.ID] = &entry{
			id:              d.ID,
			tags:            append([]models.Tag(nil), d.Tags...),
			status:          models.StatusIdle,
			defaultInterval: d.Interval,
			cfg: models.SubscriptionConfig{
				Interval:           d.Interval,
				Enabled:            true,
				RefetchOnReconnect: true,
			},
		}
		c.ids = append(c.ids, d.ID)
	}

	return c
}

// Subscribe registers interest in a resource and returns a handle for
// config updates and unsubscribing. The first subscriber triggers an
// immediate background fetch; so does subscribing to a stale or never-
// fetched entry. cfg applies to the whole entry (the most recent
// subscriber's config wins); cfg.Interval <= 0 falls back to the
// descriptor's default.
func (c *Cache) Subscribe(id models.ResourceID, cfg models.SubscriptionConfig) (*Subscription, error) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}

	if cfg.Interval <= 0 {
		cfg.Interval = e.defaultInterval
	}
	e.cfg = cfg
	e.subscriberCount++
	needsFetch := e.subscriberCount == 1 || e.stale || e.status == models.StatusIdle
	c.syncPollerLocked(e)
	c.mu.Unlock()

	if needsFetch {
		go func() { _, _ = c.FetchNow(context.Background(), id) }()
	}

	return &Subscription{cache: c, id: id}, nil
}

// FetchNow performs a backend read of one resource and applies the result.
// Concurrent calls for the same resource coalesce into a single outstanding
// request; every caller gets the settled snapshot. The returned error is the
// fetch error, if any — the snapshot is still valid (previous value kept,
// status error).
//
// A result is not applied when it is no longer relevant: flights that
// started before the most recent mutation commit are discarded, results
// landing while a mutation is pending are discarded, and results landing
// during an edit hold are buffered for EndEdit.
func (c *Cache) FetchNow(ctx context.Context, id models.ResourceID) (models.Snapshot, error) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return models.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	if !e.editing && e.status != models.StatusSuccess {
		e.status = models.StatusLoading
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(string(id), func() (any, error) {
		fr := &fetchResult{startedAt: time.Now()}
		fr.value, fr.err = c.fetcher.Fetch(ctx, id)
		fr.fetchedAt = time.Now()

		c.mu.Lock()
		if e, ok := c.entries[id]; ok {
			c.applyLocked(e, fr)
		}
		c.mu.Unlock()

		return fr, nil
	})
	fr := v.(*fetchResult)

	c.mu.Lock()
	snap := e.snapshot()
	c.mu.Unlock()

	if fr.err != nil {
		return snap, fmt.Errorf("fetch %s: %w", id, fr.err)
	}
	return snap, nil
}

// applyLocked decides the fate of a settled fetch: applied, buffered during
// an edit hold, or discarded when a mutation outranks it.
func (c *Cache) applyLocked(e *entry, fr *fetchResult) {
	if fr.err != nil {
		c.record(e.id, models.JournalFetchFailed, fr.err.Error())
		if e.editing || e.mutationPending {
			return
		}
		e.status = models.StatusError
		e.lastErr = fr.err
		return
	}

	if e.mutationPending || fr.startedAt.Before(e.lastCommit) {
		c.record(e.id, models.JournalFetchDiscarded, "flight predates last commit")
		return
	}

	if e.editing {
		if e.buffered == nil || fr.startedAt.After(e.buffered.startedAt) {
			e.buffered = fr
		}
		c.record(e.id, models.JournalFetchBuffered, "")
		return
	}

	e.applyFetch(fr)
	c.record(e.id, models.JournalFetchApplied, "")
}

// Read returns the current snapshot without triggering a fetch.
func (c *Cache) Read(id models.ResourceID) (models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	return e.snapshot(), nil
}

// Snapshots returns the snapshots of all registered resources in
// registration order.
func (c *Cache) Snapshots() []models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Snapshot, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.entries[id].snapshot())
	}
	return out
}

// Invalidate marks the given resources stale and kicks their pollers for an
// immediate refetch. A stale entry without a running poller is refetched on
// its next Subscribe.
func (c *Cache) Invalidate(ids ...models.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		if e, ok := c.entries[id]; ok {
			c.invalidateLocked(e, "explicit")
		}
	}
}

// InvalidateTag marks every resource whose tag set intersects tags as stale
// and kicks their pollers.
func (c *Cache) InvalidateTag(tags ...models.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.ids {
		e := c.entries[id]
		if tagsIntersect(e.tags, tags) {
			c.invalidateLocked(e, fmt.Sprintf("tags %v", tags))
		}
	}
}

// InvalidateRelated marks every resource sharing at least one tag with id as
// stale, excluding id itself. The mutation executor calls it after a commit:
// the committed resource already holds the authoritative document, its
// tag-siblings may now be out of date.
func (c *Cache) InvalidateRelated(id models.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := c.entries[id]
	if !ok {
		return
	}
	for _, otherID := range c.ids {
		if otherID == id {
			continue
		}
		e := c.entries[otherID]
		if tagsIntersect(e.tags, src.tags) {
			c.invalidateLocked(e, "write on "+string(id))
		}
	}
}

func (c *Cache) invalidateLocked(e *entry, reason string) {
	e.stale = true
	c.record(e.id, models.JournalInvalidated, reason)
	if e.poller != nil {
		e.poller.kick()
	}
}

// SetActive pauses (false) or resumes (true) polling for all resources.
// Pausing stops the pollers but keeps every cached value; resuming restarts
// polling for entries that still have subscribers.
func (c *Cache) SetActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == active {
		return
	}
	c.active = active
	for _, id := range c.ids {
		c.syncPollerLocked(c.entries[id])
	}
}

// ReconnectTargets returns the subscribed resources configured to refetch
// when backend connectivity is restored.
func (c *Cache) ReconnectTargets() []models.ResourceID {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []models.ResourceID
	for _, id := range c.ids {
		e := c.entries[id]
		if e.subscriberCount > 0 && e.cfg.RefetchOnReconnect {
			out = append(out, id)
		}
	}
	return out
}

// TryBeginMutation claims the single mutation slot of a resource and
// returns a detached copy of the current value as the rollback snapshot.
// Returns ErrMutationPending if another mutation is already in flight.
func (c *Cache) TryBeginMutation(id models.ResourceID) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, id)
	}
	if e.mutationPending {
		return nil, fmt.Errorf("%w: %s", ErrMutationPending, id)
	}

	e.mutationPending = true
	return bytes.Clone(e.value), nil
}

// AbortMutation releases a claimed mutation slot without touching the cached
// value or status. Used when a write fails locally before anything was
// applied optimistically, so there is nothing to roll back.
func (c *Cache) AbortMutation(id models.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.mutationPending = false
}

// ApplyOptimistic makes the locally predicted post-write document publicly
// visible while the write is in flight. FetchedAt is left untouched: the
// value has not been confirmed by the backend yet.
func (c *Cache) ApplyOptimistic(id models.ResourceID, value json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.value = value
	e.status = models.StatusSuccess
	e.lastErr = nil
}

// Commit installs the authoritative post-write document, releases the
// mutation slot, and advances the commit clock so that fetch flights
// started before this moment can no longer overwrite the committed value.
func (c *Cache) Commit(id models.ResourceID, serverValue json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}

	now := time.Now()
	e.value = serverValue
	e.fetchedAt = now
	e.status = models.StatusSuccess
	e.stale = false
	e.lastErr = nil
	e.mutationPending = false
	e.lastCommit = now
	c.record(id, models.JournalCommit, "")
}

// Rollback restores the exact pre-mutation snapshot after a rejected write
// and releases the mutation slot. The failed write surfaces as status error
// with cause recorded, while the restored value stays readable.
func (c *Cache) Rollback(id models.ResourceID, previous json.RawMessage, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}

	e.value = previous
	e.status = models.StatusError
	e.lastErr = cause
	e.mutationPending = false
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	c.record(id, models.JournalRollback, detail)
}

// BeginEdit freezes the public view of a resource for the duration of an
// edit session. Background polling continues, but results are buffered.
func (c *Cache) BeginEdit(id models.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[id]; ok {
		e.editing = true
	}
}

// EndEdit releases the edit hold. The newest buffered fetch result is
// applied if its flight postdates the last commit, otherwise it is
// discarded — a save that just committed outranks data fetched before it.
func (c *Cache) EndEdit(id models.ResourceID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.editing = false

	buffered := e.buffered
	e.buffered = nil
	if buffered == nil {
		return
	}
	if buffered.startedAt.Before(e.lastCommit) {
		c.record(id, models.JournalFetchDiscarded, "buffered flight predates last commit")
		return
	}

	e.applyFetch(buffered)
	c.record(id, models.JournalFetchApplied, "buffered during edit")
}

// Close stops all pollers and waits for their goroutines to exit. Cached
// values remain readable; in-flight fetches settle through the usual
// relevance checks.
func (c *Cache) Close() {
	c.mu.Lock()
	c.active = false
	pollers := make([]*poller, 0, len(c.ids))
	for _, id := range c.ids {
		e := c.entries[id]
		if e.poller != nil {
			pollers = append(pollers, e.poller)
			e.poller = nil
		}
	}
	c.mu.Unlock()

	for _, p := range pollers {
		p.stop()
		p.wait()
	}
}

// syncPollerLocked starts or stops the entry's poller to match the desired
// state. Stopping only signals the goroutine: it must never be waited for
// under the cache lock, because the goroutine itself takes the lock to
// apply results.
func (c *Cache) syncPollerLocked(e *entry) {
	shouldPoll := c.active && e.cfg.Enabled && e.subscriberCount > 0 && e.cfg.Interval > 0

	switch {
	case shouldPoll && e.poller == nil:
		e.poller = newPoller(c, e.id, e.cfg.Interval)
		e.poller.start()
	case !shouldPoll && e.poller != nil:
		e.poller.stop()
		e.poller = nil
	}
}

func (c *Cache) record(id models.ResourceID, kind, detail string) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(models.JournalEvent{
		ResourceID: id,
		Kind:       kind,
		Detail:     detail,
		At:         time.Now(),
	})
}

func tagsIntersect(a, b []models.Tag) bool {
	for _, ta := range a {
		for _, tb := range b {
			if ta == tb {
				return true
			}
		}
	}
	return false
}
