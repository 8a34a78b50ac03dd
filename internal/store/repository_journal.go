// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/models"
)

// journalRepository is the SQLite-backed implementation of
// [JournalRepository] over the "sync_journal" table.
type journalRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewJournalRepository constructs a [JournalRepository] backed by the
// provided database connection and logger.
func NewJournalRepository(db *DB, logger *logger.Logger) JournalRepository {
	logger.Debug().Msg("creating journal repository")
	return &journalRepository{
		db:     db,
		logger: logger,
	}
}

// SaveBatch inserts all events with a single multi-row INSERT.
func (r *journalRepository) SaveBatch(ctx context.Context, events []models.JournalEvent) error {
	if len(events) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	builder := sq.Insert(models.JournalEvent{}.TableName()).
		Columns("event_id", "resource_id", "kind", "detail", "at")
	for _, event := range events {
		builder = builder.Values(event.EventID, string(event.ResourceID), event.Kind, event.Detail, event.At)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*journalRepository.SaveBatch").Msg("error: cannot build insert query")
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*journalRepository.SaveBatch").Int("events", len(events)).Msg("error: cannot insert journal events")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	return nil
}

// Recent returns up to limit journal events, newest first. A non-positive
// limit falls back to 50.
func (r *journalRepository) Recent(ctx context.Context, limit int) ([]models.JournalEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("event_id", "resource_id", "kind", "detail", "at").
		From(models.JournalEvent{}.TableName()).
		OrderBy("at DESC", "event_id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*journalRepository.Recent").Msg("error: cannot build select query")
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*journalRepository.Recent").Msg("error: cannot query journal")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var events []models.JournalEvent
	for rows.Next() {
		var event models.JournalEvent
		var resourceID string
		if err = rows.Scan(&event.EventID, &resourceID, &event.Kind, &event.Detail, &event.At); err != nil {
			log.Err(err).Str("func", "*journalRepository.Recent").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %v", ErrScanningRows, err)
		}
		event.ResourceID = models.ResourceID(resourceID)
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*journalRepository.Recent").Msg("error: rows iteration error")
		return nil, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	return events, nil
}
