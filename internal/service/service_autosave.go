// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
)

// defaultDebounce is used when the configured quiet period is missing.
const defaultDebounce = 2 * time.Second

// autoSaveService implements [AutoSaveCoordinator]: it collects field drafts
// per resource, validates them as they arrive, and persists a whole session
// as one merge patch once the edits go quiet.
//
// Lock ordering: the coordinator mutex is always taken before the cache
// mutex (BeginEdit/EndEdit are called under it), never the other way around.
// The mutation call itself runs outside both.
type autoSaveService struct {
	mutations MutationExecutor
	validator validators.Validator
	cache     *cache.Cache
	debounce  time.Duration

	logger *logger.Logger

	mu       sync.Mutex
	sessions map[models.ResourceID]*editSession
}

// editSession is the mutable state of one resource under edit.
type editSession struct {
	resource          models.ResourceID
	fields            map[string]*models.FieldDraft
	dirty             bool
	saving            bool
	editedWhileSaving bool
	lastSavedAt       time.Time
	timer             *time.Timer
}

// NewAutoSaveService constructs an [AutoSaveCoordinator] that persists
// through the given executor after debounce of quiet time.
func NewAutoSaveService(mutations MutationExecutor, validator validators.Validator, c *cache.Cache, debounce time.Duration, logger *logger.Logger) AutoSaveCoordinator {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &autoSaveService{
		mutations: mutations,
		validator: validator,
		cache:     c,
		debounce:  debounce,
		logger:    logger,
		sessions:  make(map[models.ResourceID]*editSession),
	}
}

func (s *autoSaveService) OnFieldChange(ctx context.Context, id models.ResourceID, field string, value any) error {
	draft := validators.Draft{Resource: id, Fields: map[string]any{field: value}}
	validationErr := s.validator.Validate(ctx, draft, field)
	if errors.Is(validationErr, validators.ErrResourceNotEditable) {
		// ресурс в принципе не редактируется, сессию не открываем
		return fmt.Errorf("edit %s: %w", id, validationErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		session = &editSession{
			resource: id,
			fields:   make(map[string]*models.FieldDraft),
		}
		s.sessions[id] = session
		// первая правка замораживает публичное представление ресурса
		s.cache.BeginEdit(id)
	}

	fieldDraft := &models.FieldDraft{Value: value, State: models.FieldValid}
	if validationErr != nil {
		fieldDraft.State = models.FieldInvalid
		fieldDraft.Error = validationErr.Error()
	}
	session.fields[field] = fieldDraft
	session.dirty = true
	if session.saving {
		session.editedWhileSaving = true
	}
	s.scheduleLocked(session)

	return validationErr
}

func (s *autoSaveService) SaveNow(ctx context.Context, id models.ResourceID) error {
	s.mu.Lock()
	session, exists := s.sessions[id]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("save %s: %w", id, ErrNoEditSession)
	}
	if session.timer != nil {
		session.timer.Stop()
	}
	s.mu.Unlock()

	return s.flush(ctx, id)
}

func (s *autoSaveService) Cancel(id models.ResourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return fmt.Errorf("cancel %s: %w", id, ErrNoEditSession)
	}
	s.dropSessionLocked(session)
	s.logger.WithResource(id).Debug().Msg("edit session canceled")
	return nil
}

func (s *autoSaveService) Session(id models.ResourceID) (models.EditSessionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[id]
	if !exists {
		return models.EditSessionView{}, false
	}
	return viewOf(session), true
}

func (s *autoSaveService) Sessions() []models.EditSessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]models.EditSessionView, 0, len(s.sessions))
	for _, session := range s.sessions {
		views = append(views, viewOf(session))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ResourceID < views[j].ResourceID })
	return views
}

func (s *autoSaveService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		s.dropSessionLocked(session)
	}
}

// scheduleLocked (re)starts the debounce timer of a session.
func (s *autoSaveService) scheduleLocked(session *editSession) {
	if session.timer != nil {
		session.timer.Stop()
	}
	id := session.resource
	session.timer = time.AfterFunc(s.debounce, func() {
		// ошибки журналируются внутри flush, таймеру их возвращать некому
		_ = s.flush(context.Background(), id)
	})
}

// flush persists the session's drafted fields as one merge patch. It is the
// single save path shared by the debounce timer and SaveNow.
func (s *autoSaveService) flush(ctx context.Context, id models.ResourceID) error {
	s.mu.Lock()
	session, exists := s.sessions[id]
	if !exists {
		s.mu.Unlock()
		return fmt.Errorf("save %s: %w", id, ErrNoEditSession)
	}
	if session.saving {
		// предыдущее сохранение ещё в полёте; его завершение перезапустит цикл
		s.mu.Unlock()
		return fmt.Errorf("save %s: %w", id, ErrMutationPending)
	}
	if invalid := invalidFields(session); len(invalid) > 0 {
		s.mu.Unlock()
		s.logger.WithResource(id).Debug().Strs("fields", invalid).Msg("auto-save blocked by invalid draft")
		return fmt.Errorf("save %s: %w", id, ErrInvalidDraft)
	}

	patch, err := draftPatch(session)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save %s: %w", id, err)
	}
	if patch == nil {
		// всё уже сохранено, отправлять нечего
		s.mu.Unlock()
		return nil
	}

	session.saving = true
	session.editedWhileSaving = false
	setDraftStates(session, models.FieldSaving, "")
	s.mu.Unlock()

	_, saveErr := s.mutations.Mutate(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists = s.sessions[id]
	if !exists {
		// сессию отменили, пока запрос был в полёте
		return saveErr
	}
	session.saving = false

	switch {
	case saveErr == nil:
		session.lastSavedAt = time.Now()
		if session.editedWhileSaving {
			// во время сохранения появились новые правки — свежий цикл дебаунса
			finishSaving(session, models.FieldSaved, "")
			s.scheduleLocked(session)
			return nil
		}
		s.dropSessionLocked(session)
		return nil

	case errors.Is(saveErr, ErrMutationPending):
		// слот занят другой записью; повторяем после ещё одного дебаунса
		finishSaving(session, models.FieldValid, "")
		s.scheduleLocked(session)
		return saveErr

	default:
		s.logger.WithResource(id).Warn().Err(saveErr).Msg("auto-save failed, draft kept")
		finishSaving(session, models.FieldSaveFailed, saveErr.Error())
		return saveErr
	}
}

// dropSessionLocked removes a session and releases the edit hold, so
// buffered background refreshes of the resource apply.
func (s *autoSaveService) dropSessionLocked(session *editSession) {
	if session.timer != nil {
		session.timer.Stop()
	}
	delete(s.sessions, session.resource)
	s.cache.EndEdit(session.resource)
}

func viewOf(session *editSession) models.EditSessionView {
	fields := make(map[string]models.FieldDraft, len(session.fields))
	for name, draft := range session.fields {
		fields[name] = *draft
	}
	return models.EditSessionView{
		ResourceID:  session.resource,
		Fields:      fields,
		Dirty:       session.dirty,
		LastSavedAt: session.lastSavedAt,
	}
}

func invalidFields(session *editSession) []string {
	var names []string
	for name, draft := range session.fields {
		if draft.State == models.FieldInvalid {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// draftPatch builds the merge patch of everything not yet saved.
// Returns nil when no field needs saving.
func draftPatch(session *editSession) (json.RawMessage, error) {
	values := make(map[string]any, len(session.fields))
	for name, draft := range session.fields {
		if draft.State == models.FieldSaved {
			continue
		}
		values[name] = draft.Value
	}
	if len(values) == 0 {
		return nil, nil
	}
	patch, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode draft patch: %w", err)
	}
	return patch, nil
}

// setDraftStates moves every unsaved field into the given state.
func setDraftStates(session *editSession, state models.FieldState, message string) {
	for _, draft := range session.fields {
		if draft.State == models.FieldSaved {
			continue
		}
		draft.State = state
		draft.Error = message
	}
}

// finishSaving moves fields frozen in FieldSaving into the given terminal
// state, leaving fields re-edited during the save untouched.
func finishSaving(session *editSession, state models.FieldState, message string) {
	for _, draft := range session.fields {
		if draft.State != models.FieldSaving {
			continue
		}
		draft.State = state
		draft.Error = message
	}
}
