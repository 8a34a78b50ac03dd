// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyExecutor подменяет исполнитель мутаций: записывает патчи и отвечает без
// сети. Простой стаб вместо mockgen — координатору важен только Mutate.
type spyExecutor struct {
	mu      sync.Mutex
	patches []json.RawMessage
	err     error
	errOnce bool

	gate    chan struct{}
	started chan struct{}
}

func (s *spyExecutor) Mutate(_ context.Context, id models.ResourceID, patch json.RawMessage) (models.Snapshot, error) {
	s.mu.Lock()
	gate := s.gate
	started := s.started
	s.gate = nil
	s.started = nil
	s.mu.Unlock()

	if gate != nil {
		if started != nil {
			close(started)
		}
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, bytes.Clone(patch))
	err := s.err
	if s.errOnce {
		s.err = nil
		s.errOnce = false
	}
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{ID: id, Value: patch, Status: models.StatusSuccess}, nil
}

func (s *spyExecutor) Execute(context.Context, models.ResourceID, string, json.RawMessage) (models.Snapshot, error) {
	return models.Snapshot{}, nil
}

// fail задаёт ошибку ответа; once — только для ближайшего вызова.
func (s *spyExecutor) fail(err error, once bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.errOnce = once
}

// block заставляет ближайший Mutate сообщить о старте и повиснуть до закрытия gate.
func (s *spyExecutor) block(started, gate chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = started
	s.gate = gate
}

func (s *spyExecutor) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patches)
}

func (s *spyExecutor) patch(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.patches[i])
}

// stubDocFetcher отдаёт один и тот же документ для любого ресурса.
type stubDocFetcher struct {
	mu  sync.Mutex
	doc json.RawMessage
}

func (f *stubDocFetcher) Fetch(context.Context, models.ResourceID) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, nil
}

func (f *stubDocFetcher) set(doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = json.RawMessage(doc)
}

func newAutoSaveHarness(t *testing.T, debounce time.Duration) (AutoSaveCoordinator, *spyExecutor, *cache.Cache, *stubDocFetcher) {
	t.Helper()
	fetcher := &stubDocFetcher{doc: json.RawMessage(`{}`)}
	c := cache.NewCache(fetcher, models.DefaultDescriptors(), nil, logger.Nop())
	t.Cleanup(c.Close)
	executor := &spyExecutor{}
	svc := NewAutoSaveService(executor, validators.NewSettingsValidator(), c, debounce, logger.Nop())
	t.Cleanup(svc.Close)
	return svc, executor, c, fetcher
}

// ── OnFieldChange / debounce ─────────────────────────────────────────────────

func TestAutoSaveService_SavesAfterQuietPeriod(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 40*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))

	view, ok := svc.Session(models.ResourcePreferences)
	require.True(t, ok)
	assert.True(t, view.Dirty)
	assert.Equal(t, models.FieldValid, view.Fields[validators.FieldTheme].State)

	require.Eventually(t, func() bool { return executor.calls() == 1 },
		time.Second, 5*time.Millisecond, "пауза прошла, а сохранения нет")
	assert.JSONEq(t, `{"theme":"dark"}`, executor.patch(0))

	// успешное сохранение закрывает сессию
	require.Eventually(t, func() bool {
		_, ok := svc.Session(models.ResourcePreferences)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestAutoSaveService_EditResetsDebounce(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 250*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))
	time.Sleep(130 * time.Millisecond)
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldLanguage, "de"))
	time.Sleep(130 * time.Millisecond)

	// без сброса таймер первой правки уже сработал бы
	assert.Zero(t, executor.calls(), "правка не перезапустила отсчёт тишины")

	require.Eventually(t, func() bool { return executor.calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"theme":"dark","language":"de"}`, executor.patch(0))
}

func TestAutoSaveService_FieldsMergeIntoSinglePatch(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 40*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldDigest, "daily"))
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldRiskAlertThreshold, 75))

	require.Eventually(t, func() bool { return executor.calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"theme":"dark","digest":"daily","risk_alert_threshold":75}`, executor.patch(0))
}

func TestAutoSaveService_NotEditableResource(t *testing.T) {
	svc, _, _, _ := newAutoSaveHarness(t, time.Minute)

	err := svc.OnFieldChange(context.Background(), models.ResourceSessions, "anything", "x")
	assert.ErrorIs(t, err, validators.ErrResourceNotEditable)

	_, ok := svc.Session(models.ResourceSessions)
	assert.False(t, ok, "сессия для нередактируемого ресурса не открывается")
}

// ── validation ───────────────────────────────────────────────────────────────

func TestAutoSaveService_InvalidDraftBlocksSave(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 30*time.Millisecond)
	ctx := context.Background()

	err := svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "neon")
	require.Error(t, err)

	view, ok := svc.Session(models.ResourcePreferences)
	require.True(t, ok)
	field := view.Fields[validators.FieldTheme]
	assert.Equal(t, models.FieldInvalid, field.State)
	assert.NotEmpty(t, field.Error)

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, executor.calls(), "невалидный черновик не сохраняется")

	// черновик не потерян
	view, ok = svc.Session(models.ResourcePreferences)
	require.True(t, ok)
	assert.True(t, view.Dirty)
}

func TestAutoSaveService_FixedFieldSavesLatestValue(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 40*time.Millisecond)
	ctx := context.Background()

	require.Error(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "neon"))
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))

	require.Eventually(t, func() bool { return executor.calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"theme":"dark"}`, executor.patch(0))
}

// ── SaveNow / Cancel ─────────────────────────────────────────────────────────

func TestAutoSaveService_SaveNow_PersistsWithoutWaiting(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))
	require.NoError(t, svc.SaveNow(ctx, models.ResourcePreferences))

	assert.Equal(t, 1, executor.calls())
	assert.JSONEq(t, `{"theme":"dark"}`, executor.patch(0))
	_, ok := svc.Session(models.ResourcePreferences)
	assert.False(t, ok)
}

func TestAutoSaveService_SaveNow_NoSession(t *testing.T) {
	svc, _, _, _ := newAutoSaveHarness(t, time.Minute)

	err := svc.SaveNow(context.Background(), models.ResourcePreferences)
	assert.ErrorIs(t, err, ErrNoEditSession)
}

func TestAutoSaveService_SaveNow_InvalidDraft(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, time.Minute)
	ctx := context.Background()

	require.Error(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "neon"))

	err := svc.SaveNow(ctx, models.ResourcePreferences)
	assert.ErrorIs(t, err, ErrInvalidDraft)
	assert.Zero(t, executor.calls())
}

func TestAutoSaveService_Cancel_DropsDraftAndReleasesRefreshes(t *testing.T) {
	svc, executor, c, fetcher := newAutoSaveHarness(t, time.Minute)
	ctx := context.Background()

	fetcher.set(`{"theme":"light"}`)
	_, err := c.FetchNow(ctx, models.ResourcePreferences)
	require.NoError(t, err)

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))

	// фоновая перечитка во время правки буферизуется, вид заморожен
	fetcher.set(`{"theme":"solar"}`)
	_, err = c.FetchNow(ctx, models.ResourcePreferences)
	require.NoError(t, err)
	snap, err := c.Read(models.ResourcePreferences)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, string(snap.Value))

	require.NoError(t, svc.Cancel(models.ResourcePreferences))
	_, ok := svc.Session(models.ResourcePreferences)
	assert.False(t, ok)

	// после отмены применяется отложенная перечитка, черновик никуда не уходит
	snap, err = c.Read(models.ResourcePreferences)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"solar"}`, string(snap.Value))
	assert.Zero(t, executor.calls())

	assert.ErrorIs(t, svc.Cancel(models.ResourcePreferences), ErrNoEditSession)
}

// ── save outcomes ────────────────────────────────────────────────────────────

func TestAutoSaveService_EditDuringSaveStartsFollowUpCycle(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 40*time.Millisecond)
	ctx := context.Background()

	started := make(chan struct{})
	gate := make(chan struct{})
	executor.block(started, gate)

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))
	<-started

	// правка, пока сохранение в полёте
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldLanguage, "de"))
	close(gate)

	// дохранение несёт только несохранённое поле
	require.Eventually(t, func() bool { return executor.calls() == 2 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"theme":"dark"}`, executor.patch(0))
	assert.JSONEq(t, `{"language":"de"}`, executor.patch(1))

	require.Eventually(t, func() bool {
		_, ok := svc.Session(models.ResourcePreferences)
		return !ok
	}, time.Second, 5*time.Millisecond, "после дохранения сессия не закрылась")
}

func TestAutoSaveService_FailedSaveKeepsDraft(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 30*time.Millisecond)
	ctx := context.Background()
	executor.fail(errors.New("backend rejected"), false)

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))
	require.Eventually(t, func() bool { return executor.calls() == 1 }, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		view, ok := svc.Session(models.ResourcePreferences)
		return ok && view.Fields[validators.FieldTheme].State == models.FieldSaveFailed
	}, time.Second, 5*time.Millisecond)
	view, _ := svc.Session(models.ResourcePreferences)
	assert.Contains(t, view.Fields[validators.FieldTheme].Error, "backend rejected")

	// автоматических повторов нет
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, executor.calls())

	// следующая правка запускает новую попытку
	executor.fail(nil, false)
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "light"))
	require.Eventually(t, func() bool { return executor.calls() == 2 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t, `{"theme":"light"}`, executor.patch(1))
}

func TestAutoSaveService_BusySlotRetriesAfterDebounce(t *testing.T) {
	svc, executor, _, _ := newAutoSaveHarness(t, 30*time.Millisecond)
	ctx := context.Background()
	// слот мутации занят только в момент первой попытки
	executor.fail(ErrMutationPending, true)

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))

	require.Eventually(t, func() bool { return executor.calls() == 2 }, time.Second, 5*time.Millisecond,
		"занятый слот не привёл к повторной попытке")
	assert.JSONEq(t, `{"theme":"dark"}`, executor.patch(0))
	assert.JSONEq(t, `{"theme":"dark"}`, executor.patch(1))

	require.Eventually(t, func() bool {
		_, ok := svc.Session(models.ResourcePreferences)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

// ── Sessions / Close ─────────────────────────────────────────────────────────

func TestAutoSaveService_SessionsSortedByResource(t *testing.T) {
	svc, _, _, _ := newAutoSaveHarness(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.OnFieldChange(ctx, models.ResourceProfile, validators.FieldFirstName, "Anna"))
	require.NoError(t, svc.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, "dark"))

	views := svc.Sessions()
	require.Len(t, views, 2)
	assert.Equal(t, models.ResourcePreferences, views[0].ResourceID)
	assert.Equal(t, models.ResourceProfile, views[1].ResourceID)

	svc.Close()
	assert.Empty(t, svc.Sessions())
}
