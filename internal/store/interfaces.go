package store

import (
	"context"

	"github.com/MKhiriev/go-risk-console/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AuthSessionRepository persists the saved login of the client application so
// a restart does not force a new login while the token is still valid.
// At most one session is kept: saving a new one replaces whatever was stored.
type AuthSessionRepository interface {
	// Save stores the session, replacing any previously saved one.
	Save(ctx context.Context, session models.AuthSession) error

	// Last returns the most recently saved session.
	// Returns ErrSessionNotFound when nothing is stored.
	Last(ctx context.Context) (models.AuthSession, error)

	// DeleteAll removes every saved session, e.g. on logout.
	DeleteAll(ctx context.Context) error
}

// JournalRepository persists sync journal events batched by the journal
// flusher and serves them back for troubleshooting.
type JournalRepository interface {
	// SaveBatch inserts the given events in one statement.
	// An empty batch is a no-op.
	SaveBatch(ctx context.Context, events []models.JournalEvent) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]models.JournalEvent, error)
}
