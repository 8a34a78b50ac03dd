// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/models"
)

// authSessionRepository is the SQLite-backed implementation of
// [AuthSessionRepository]. It keeps at most one row in the "auth_sessions"
// table: saving a new session replaces the previous one inside a transaction.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured tracing of database interactions.
type authSessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAuthSessionRepository constructs an [AuthSessionRepository] backed by
// the provided database connection and logger.
func NewAuthSessionRepository(db *DB, logger *logger.Logger) AuthSessionRepository {
	logger.Debug().Msg("creating auth session repository")
	return &authSessionRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores the session. The previous session (if any) is deleted in the
// same transaction, so the table never holds more than one row.
func (r *authSessionRepository) Save(ctx context.Context, session models.AuthSession) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Save").Msg("error: cannot begin transaction")
		return fmt.Errorf("%w: %v", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	deleteQuery, _, err := sq.Delete(session.TableName()).ToSql()
	if err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Save").Msg("error: cannot build delete query")
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, deleteQuery); err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Save").Msg("error: cannot delete previous session")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	insertQuery, args, err := sq.Insert(session.TableName()).
		Columns("login", "token", "saved_at", "expires_at").
		Values(session.Login, session.Token, session.SavedAt, session.ExpiresAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Save").Msg("error: cannot build insert query")
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, insertQuery, args...); err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Save").Msg("error: cannot insert session")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Save").Msg("error: cannot commit transaction")
		return fmt.Errorf("%w: %v", ErrCommitingTransaction, err)
	}

	return nil
}

// Last returns the most recently saved session.
//
// Error handling:
//   - empty table → [ErrSessionNotFound];
//   - any other driver-level error → wrapped as [ErrExecutingQuery].
func (r *authSessionRepository) Last(ctx context.Context) (models.AuthSession, error) {
	log := logger.FromContext(ctx)

	query, _, err := sq.Select("login", "token", "saved_at", "expires_at").
		From(models.AuthSession{}.TableName()).
		OrderBy("saved_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*authSessionRepository.Last").Msg("error: cannot build select query")
		return models.AuthSession{}, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	var session models.AuthSession
	row := r.db.QueryRowContext(ctx, query)
	if err = row.Scan(&session.Login, &session.Token, &session.SavedAt, &session.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AuthSession{}, ErrSessionNotFound
		}
		log.Err(err).Str("func", "*authSessionRepository.Last").Msg("error: scanning error")
		return models.AuthSession{}, fmt.Errorf("%w: %v", ErrExecutingQuery, err)
	}

	return session, nil
}

// DeleteAll removes every saved session.
func (r *authSessionRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	query, _, err := sq.Delete(models.AuthSession{}.TableName()).ToSql()
	if err != nil {
		log.Err(err).Str("func", "*authSessionRepository.DeleteAll").Msg("error: cannot build delete query")
		return fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}
	if _, err = r.db.ExecContext(ctx, query); err != nil {
		log.Err(err).Str("func", "*authSessionRepository.DeleteAll").Msg("error: cannot delete sessions")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}

	return nil
}
