// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/MKhiriev/go-risk-console/internal/adapter"
	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/models"
)

// syncOrchestrator implements [SyncOrchestrator] as a thin control surface
// over the resource cache plus the reconnect watcher.
type syncOrchestrator struct {
	cache   *cache.Cache
	gateway adapter.SettingsGateway
	journal cache.Recorder

	probeInitial time.Duration
	probeMax     time.Duration

	logger *logger.Logger
}

// NewSyncOrchestrator constructs a [SyncOrchestrator]. The journal recorder
// receives engine-wide events such as reconnects; sync timing comes from the
// client config.
func NewSyncOrchestrator(c *cache.Cache, gateway adapter.SettingsGateway, journal cache.Recorder, syncCfg config.ClientSync, logger *logger.Logger) SyncOrchestrator {
	probeInitial := syncCfg.ReconnectInitialInterval
	if probeInitial <= 0 {
		probeInitial = time.Second
	}
	probeMax := syncCfg.ReconnectMaxInterval
	if probeMax <= 0 {
		probeMax = 30 * time.Second
	}
	return &syncOrchestrator{
		cache:        c,
		gateway:      gateway,
		journal:      journal,
		probeInitial: probeInitial,
		probeMax:     probeMax,
		logger:       logger,
	}
}

func (o *syncOrchestrator) Subscribe(id models.ResourceID, cfg models.SubscriptionConfig) (*cache.Subscription, error) {
	return o.cache.Subscribe(id, cfg)
}

func (o *syncOrchestrator) Read(id models.ResourceID) (models.Snapshot, error) {
	return o.cache.Read(id)
}

func (o *syncOrchestrator) Resources() []models.Snapshot {
	return o.cache.Snapshots()
}

// Status reduces all resource snapshots to a single status-bar line.
func (o *syncOrchestrator) Status() models.AggregateStatus {
	status := models.AggregateStatus{IsConnected: true}
	for _, snapshot := range o.cache.Snapshots() {
		if snapshot.Status == models.StatusLoading {
			status.IsLoading = true
		}
		if snapshot.Status == models.StatusError {
			status.IsConnected = false
		}
		if snapshot.FetchedAt.After(status.LastUpdate) {
			status.LastUpdate = snapshot.FetchedAt
		}
	}
	return status
}

// RefreshAll refetches every composed resource concurrently. A failing
// resource never blocks the others; the joined error is returned after all
// fetches settle.
func (o *syncOrchestrator) RefreshAll(ctx context.Context) error {
	snapshots := o.cache.Snapshots()

	var wg sync.WaitGroup
	errs := make([]error, len(snapshots))
	for i, snapshot := range snapshots {
		wg.Add(1)
		go func(i int, id models.ResourceID) {
			defer wg.Done()
			if _, err := o.cache.FetchNow(ctx, id); err != nil {
				errs[i] = err
			}
		}(i, snapshot.ID)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (o *syncOrchestrator) InvalidateByTags(tags ...models.Tag) {
	o.cache.InvalidateTag(tags...)
}

func (o *syncOrchestrator) SetActive(active bool) {
	o.logger.Debug().Bool("active", active).Msg("switching engine activity")
	o.cache.SetActive(active)
}

// WatchReconnect is the reconnect watcher loop. Every probe interval it
// checks the aggregate status; when the engine looks disconnected and the
// health endpoint really is unreachable, it waits for the backend to come
// back with exponential backoff and then refetches every subscribed resource
// marked RefetchOnReconnect.
func (o *syncOrchestrator) WatchReconnect(ctx context.Context) {
	ticker := time.NewTicker(o.probeInitial)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if o.Status().IsConnected {
			continue
		}
		// ресурс может быть в ошибке при живом бэкенде (404 и т.п.) —
		// реконнект объявляем только когда health действительно молчит
		if err := o.gateway.Ping(ctx); err == nil {
			continue
		}

		o.logger.Info().Msg("backend unreachable, waiting for it to come back")
		if err := o.waitForBackend(ctx); err != nil {
			return
		}
		o.handleReconnect(ctx)
	}
}

// waitForBackend pings the health endpoint with exponential backoff until it
// answers or ctx is done.
func (o *syncOrchestrator) waitForBackend(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = o.probeInitial
	policy.MaxInterval = o.probeMax
	policy.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		return o.gateway.Ping(ctx)
	}, backoff.WithContext(policy, ctx))
}

// handleReconnect records the transition in the journal and refetches every
// subscribed resource whose config asks for it.
func (o *syncOrchestrator) handleReconnect(ctx context.Context) {
	o.journal.Record(models.JournalEvent{Kind: models.JournalReconnected, At: time.Now()})

	targets := o.cache.ReconnectTargets()
	var wg sync.WaitGroup
	for _, id := range targets {
		wg.Add(1)
		go func(id models.ResourceID) {
			defer wg.Done()
			if _, err := o.cache.FetchNow(ctx, id); err != nil {
				o.logger.WithResource(id).Debug().Err(err).Msg("refetch after reconnect failed")
			}
		}(id)
	}
	wg.Wait()

	o.logger.Info().Int("resources", len(targets)).Msg("backend is back, subscribed resources refetched")
}
