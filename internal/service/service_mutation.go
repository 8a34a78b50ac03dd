// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-risk-console/internal/adapter"
	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
)

// mutationService implements [MutationExecutor] on top of the resource cache
// and the settings gateway. The cache enforces the one-pending-mutation rule
// and keeps the rollback snapshot; this service sequences the steps around
// the network call.
type mutationService struct {
	cache       *cache.Cache
	gateway     adapter.SettingsGateway
	descriptors map[models.ResourceID]models.ResourceDescriptor

	logger *logger.Logger
}

// NewMutationService constructs a [MutationExecutor] over the given cache and
// gateway for the listed resources.
func NewMutationService(c *cache.Cache, gateway adapter.SettingsGateway, descriptors []models.ResourceDescriptor, logger *logger.Logger) MutationExecutor {
	byID := make(map[models.ResourceID]models.ResourceDescriptor, len(descriptors))
	for _, d := range descriptors {
		byID[d.ID] = d
	}
	return &mutationService{
		cache:       c,
		gateway:     gateway,
		descriptors: byID,
		logger:      logger,
	}
}

// Mutate performs one optimistic write:
//
//	claim slot → merge patch locally → show merged value → PATCH backend →
//	commit server document + invalidate siblings, or roll back byte-exact.
func (s *mutationService) Mutate(ctx context.Context, id models.ResourceID, patch json.RawMessage) (models.Snapshot, error) {
	descriptor, known := s.descriptors[id]
	if !known {
		return models.Snapshot{}, fmt.Errorf("mutate %s: %w", id, ErrUnknownResource)
	}
	if !descriptor.Editable {
		return models.Snapshot{}, fmt.Errorf("mutate %s: %w", id, validators.ErrResourceNotEditable)
	}

	previous, err := s.cache.TryBeginMutation(id)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("mutate: %w", err)
	}

	mutation := models.PendingMutation{
		ID:            uuid.NewString(),
		ResourceID:    id,
		Patch:         patch,
		PreviousValue: previous,
		SubmittedAt:   time.Now(),
		Status:        models.MutationPending,
	}
	log := s.logger.WithResource(id)

	optimistic, err := applyMergePatch(previous, patch)
	if err != nil {
		// ничего оптимистичного ещё не применено, откатывать нечего
		s.cache.AbortMutation(id)
		log.Debug().Str("mutation_id", mutation.ID).Err(err).Msg("merge patch rejected locally")
		return models.Snapshot{}, fmt.Errorf("mutate %s: %w", id, err)
	}
	mutation.OptimisticValue = optimistic
	s.cache.ApplyOptimistic(id, optimistic)
	log.Debug().Str("mutation_id", mutation.ID).Msg("optimistic value applied, submitting patch")

	confirmed, err := s.gateway.Patch(ctx, id, patch)
	if err != nil {
		s.cache.Rollback(id, previous, err)
		mutation.Status = models.MutationRolledBack
		log.Warn().Str("mutation_id", mutation.ID).Err(err).Msg("patch rejected, rolled back")
		snapshot, _ := s.cache.Read(id)
		return snapshot, fmt.Errorf("mutate %s: %w: %w", id, ErrMutationRejected, err)
	}

	s.cache.Commit(id, confirmed)
	mutation.Status = models.MutationCommitted
	s.cache.InvalidateRelated(id)
	log.Debug().Str("mutation_id", mutation.ID).Msg("mutation committed")

	return s.cache.Read(id)
}

// Execute runs a non-CRUD action. No optimistic value is shown: the effect of
// an action on the document is not predictable locally, so the view keeps the
// pre-action value until the backend answers.
func (s *mutationService) Execute(ctx context.Context, id models.ResourceID, action string, body json.RawMessage) (models.Snapshot, error) {
	descriptor, known := s.descriptors[id]
	if !known {
		return models.Snapshot{}, fmt.Errorf("execute %s: %w", id, ErrUnknownResource)
	}
	if !slices.Contains(descriptor.Actions, action) {
		return models.Snapshot{}, fmt.Errorf("execute %q on %s: %w", action, id, ErrUnsupportedAction)
	}

	previous, err := s.cache.TryBeginMutation(id)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("execute: %w", err)
	}
	log := s.logger.WithResource(id)

	confirmed, err := s.gateway.Do(ctx, id, action, body)
	if err != nil {
		s.cache.Rollback(id, previous, err)
		log.Warn().Str("action", action).Err(err).Msg("action rejected")
		snapshot, _ := s.cache.Read(id)
		return snapshot, fmt.Errorf("execute %q on %s: %w: %w", action, id, ErrMutationRejected, err)
	}

	s.cache.Commit(id, confirmed)
	s.cache.InvalidateRelated(id)
	log.Debug().Str("action", action).Msg("action committed")

	return s.cache.Read(id)
}

// applyMergePatch merges an RFC 7386 patch into the current document.
// A resource that has never been fetched merges against an empty object.
func applyMergePatch(document, patch json.RawMessage) (json.RawMessage, error) {
	if len(document) == 0 {
		document = json.RawMessage(`{}`)
	}
	merged, err := jsonpatch.MergePatch(document, patch)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return merged, nil
}
