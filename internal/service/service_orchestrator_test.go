// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/adapter"
	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/mock"
	"github.com/MKhiriev/go-risk-console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newOrchestratorHarness(t *testing.T, ctrl *gomock.Controller, syncCfg config.ClientSync) (SyncOrchestrator, *mock.MockSettingsGateway, *cache.Cache, *recorderSpy) {
	t.Helper()
	gateway := mock.NewMockSettingsGateway(ctrl)
	rec := &recorderSpy{}
	c := cache.NewCache(gateway, models.DefaultDescriptors(), rec, logger.Nop())
	t.Cleanup(c.Close)
	svc := NewSyncOrchestrator(c, gateway, rec, syncCfg, logger.Nop())
	return svc, gateway, c, rec
}

// ── Status ───────────────────────────────────────────────────────────────────

func TestSyncOrchestrator_Status_TracksErrorsAndLastUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gateway, c, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{})
	ctx := context.Background()

	gateway.EXPECT().Fetch(gomock.Any(), models.ResourcePreferences).Return(json.RawMessage(`{}`), nil)
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourceProfile).Return(json.RawMessage(`{}`), nil)
	_, err := c.FetchNow(ctx, models.ResourcePreferences)
	require.NoError(t, err)
	_, err = c.FetchNow(ctx, models.ResourceProfile)
	require.NoError(t, err)

	status := svc.Status()
	assert.True(t, status.IsConnected)
	assert.False(t, status.IsLoading)

	// LastUpdate — время самой поздней удачной выборки
	profile, err := c.Read(models.ResourceProfile)
	require.NoError(t, err)
	assert.True(t, status.LastUpdate.Equal(profile.FetchedAt))

	// одна ошибка валит агрегат в disconnected
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourceSessions).Return(nil, errors.New("boom"))
	_, err = c.FetchNow(ctx, models.ResourceSessions)
	require.Error(t, err)
	assert.False(t, svc.Status().IsConnected)
}

func TestSyncOrchestrator_Status_LoadingDuringFirstFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gateway, c, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{})

	fetchStarted := make(chan struct{})
	release := make(chan struct{})
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourceOverview).
		DoAndReturn(func(context.Context, models.ResourceID) (json.RawMessage, error) {
			close(fetchStarted)
			<-release
			return json.RawMessage(`{}`), nil
		})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.FetchNow(context.Background(), models.ResourceOverview)
	}()

	<-fetchStarted
	assert.True(t, svc.Status().IsLoading)

	close(release)
	<-done
	assert.False(t, svc.Status().IsLoading)
}

// ── RefreshAll ───────────────────────────────────────────────────────────────

func TestSyncOrchestrator_RefreshAll_FetchesEveryResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gateway, _, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{})

	// ровно по одной выборке на каждый из пяти ресурсов
	for _, d := range models.DefaultDescriptors() {
		gateway.EXPECT().Fetch(gomock.Any(), d.ID).Return(json.RawMessage(`{}`), nil)
	}

	require.NoError(t, svc.RefreshAll(context.Background()))
	for _, snap := range svc.Resources() {
		assert.Equal(t, models.StatusSuccess, snap.Status, "ресурс %s не обновился", snap.ID)
	}
}

func TestSyncOrchestrator_RefreshAll_PartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gateway, _, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{})

	for _, d := range models.DefaultDescriptors() {
		if d.ID == models.ResourceSecurityEvents {
			gateway.EXPECT().Fetch(gomock.Any(), d.ID).Return(nil, errors.New("boom"))
			continue
		}
		gateway.EXPECT().Fetch(gomock.Any(), d.ID).Return(json.RawMessage(`{}`), nil)
	}

	err := svc.RefreshAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(models.ResourceSecurityEvents))

	// сбой одного ресурса не мешает остальным
	snap, readErr := svc.Read(models.ResourcePreferences)
	require.NoError(t, readErr)
	assert.Equal(t, models.StatusSuccess, snap.Status)
}

// ── invalidation / activity ──────────────────────────────────────────────────

func TestSyncOrchestrator_InvalidateByTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{})

	svc.InvalidateByTags(models.TagSecurity)

	for _, snap := range svc.Resources() {
		switch snap.ID {
		case models.ResourceSessions, models.ResourceSecurityEvents, models.ResourceOverview:
			assert.True(t, snap.Stale, "ресурс %s делит тег security", snap.ID)
		default:
			assert.False(t, snap.Stale, "ресурс %s тег security не носит", snap.ID)
		}
	}
}

func TestSyncOrchestrator_SetActive_PausesAndResumesPolling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, gateway, _, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{})

	var fetches atomic.Int64
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourceSessions).
		DoAndReturn(func(context.Context, models.ResourceID) (json.RawMessage, error) {
			fetches.Add(1)
			return json.RawMessage(`[]`), nil
		}).AnyTimes()

	sub, err := svc.Subscribe(models.ResourceSessions, models.SubscriptionConfig{
		Interval: 20 * time.Millisecond,
		Enabled:  true,
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.Eventually(t, func() bool { return fetches.Load() >= 2 }, time.Second, 5*time.Millisecond)

	svc.SetActive(false)
	time.Sleep(50 * time.Millisecond) // дать долететь последнему тику
	settled := fetches.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, settled, fetches.Load(), "в фоне приложение не опрашивает")

	svc.SetActive(true)
	require.Eventually(t, func() bool { return fetches.Load() > settled },
		time.Second, 5*time.Millisecond, "возврат в активность не возобновил опрос")
}

// ── WatchReconnect ───────────────────────────────────────────────────────────

func TestSyncOrchestrator_WatchReconnect_RefetchesWhenBackendReturns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.ClientSync{
		ReconnectInitialInterval: 15 * time.Millisecond,
		ReconnectMaxInterval:     30 * time.Millisecond,
	}
	svc, gateway, c, rec := newOrchestratorHarness(t, ctrl, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// бэкенд молчит первые два пинга, затем оживает
	var pings atomic.Int64
	gateway.EXPECT().Ping(gomock.Any()).DoAndReturn(func(context.Context) error {
		if pings.Add(1) < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	}).AnyTimes()

	var refetches atomic.Int64
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourcePreferences).
		DoAndReturn(func(context.Context, models.ResourceID) (json.RawMessage, error) {
			refetches.Add(1)
			return json.RawMessage(`{"theme":"dark"}`), nil
		}).AnyTimes()

	// интервал в час: фоновый опрос не вмешивается в счёт выборок
	sub, err := svc.Subscribe(models.ResourcePreferences, models.SubscriptionConfig{
		Interval:           time.Hour,
		Enabled:            true,
		RefetchOnReconnect: true,
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.Eventually(t, func() bool { return refetches.Load() == 1 }, time.Second, 5*time.Millisecond)

	// роняем непосещаемый ресурс, чтобы агрегат стал disconnected
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourceSessions).Return(nil, errors.New("dial tcp: connection refused"))
	_, fetchErr := c.FetchNow(ctx, models.ResourceSessions)
	require.Error(t, fetchErr)
	require.False(t, svc.Status().IsConnected)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.WatchReconnect(ctx)
	}()

	// сторож дождался оживления, записал событие и перечитал подписанное
	require.Eventually(t, func() bool { return rec.has(models.JournalReconnected) },
		2*time.Second, 10*time.Millisecond, "реконнект не попал в журнал")
	require.Eventually(t, func() bool { return refetches.Load() >= 2 },
		2*time.Second, 10*time.Millisecond, "после реконнекта нет перечитки")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchReconnect не завершился по отмене контекста")
	}
}

func TestSyncOrchestrator_WatchReconnect_LiveBackendIsNotOutage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := config.ClientSync{
		ReconnectInitialInterval: 10 * time.Millisecond,
		ReconnectMaxInterval:     20 * time.Millisecond,
	}
	svc, gateway, c, rec := newOrchestratorHarness(t, ctrl, cfg)

	// health жив, хотя один ресурс в ошибке (например, битый документ)
	gateway.EXPECT().Ping(gomock.Any()).Return(nil).AnyTimes()
	gateway.EXPECT().Fetch(gomock.Any(), models.ResourceOverview).Return(nil, adapter.ErrNotFound)
	_, err := c.FetchNow(context.Background(), models.ResourceOverview)
	require.Error(t, err)
	require.False(t, svc.Status().IsConnected)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.WatchReconnect(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	assert.False(t, rec.has(models.JournalReconnected), "живой бэкенд не считается обрывом связи")
}

func TestSyncOrchestrator_WatchReconnect_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newOrchestratorHarness(t, ctrl, config.ClientSync{ReconnectInitialInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.WatchReconnect(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchReconnect не завершился по отмене контекста")
	}
}
