package store

import "github.com/MKhiriev/go-risk-console/internal/logger"

// Storages bundles the local repositories of the client application.
type Storages struct {
	AuthSessions AuthSessionRepository
	Journal      JournalRepository
}

// NewStorages wires every repository to the shared database connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		AuthSessions: NewAuthSessionRepository(db, log),
		Journal:      NewJournalRepository(db, log),
	}
}
