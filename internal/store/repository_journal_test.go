package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/models"
)

func newTestJournalRepo(t *testing.T) (*journalRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &journalRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestJournalSaveBatch_Success(t *testing.T) {
	repo, mock, db := newTestJournalRepo(t)
	defer db.Close()

	at := time.Now()
	events := []models.JournalEvent{
		{EventID: "ev-1", ResourceID: models.ResourcePreferences, Kind: models.JournalFetchApplied, At: at},
		{EventID: "ev-2", ResourceID: models.ResourceSessions, Kind: models.JournalCommit, Detail: "terminate-others", At: at},
	}

	// один мультистрочный INSERT на весь батч
	mock.ExpectExec("INSERT INTO sync_journal").
		WithArgs(
			"ev-1", "preferences", models.JournalFetchApplied, "", at,
			"ev-2", "sessions", models.JournalCommit, "terminate-others", at,
		).
		WillReturnResult(sqlmock.NewResult(2, 2))

	if err := repo.SaveBatch(context.Background(), events); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJournalSaveBatch_EmptyBatchIsNoop(t *testing.T) {
	repo, mock, db := newTestJournalRepo(t)
	defer db.Close()

	if err := repo.SaveBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// никаких обращений к базе не должно быть
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database calls: %v", err)
	}
}

func TestJournalSaveBatch_ExecError(t *testing.T) {
	repo, mock, db := newTestJournalRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO sync_journal").
		WillReturnError(errors.New("database is locked"))

	err := repo.SaveBatch(context.Background(), []models.JournalEvent{{EventID: "ev-1", Kind: models.JournalCommit, At: time.Now()}})
	if !errors.Is(err, ErrExecutingStatement) {
		t.Errorf("expected ErrExecutingStatement, got: %v", err)
	}
}

func TestJournalRecent_Success(t *testing.T) {
	repo, mock, db := newTestJournalRepo(t)
	defer db.Close()

	newer := time.Now()
	older := newer.Add(-time.Minute)

	rows := sqlmock.
		NewRows([]string{"event_id", "resource_id", "kind", "detail", "at"}).
		AddRow("ev-2", "sessions", models.JournalCommit, "", newer).
		AddRow("ev-1", "", models.JournalReconnected, "", older)

	mock.ExpectQuery("SELECT event_id, resource_id, kind, detail, at FROM sync_journal").
		WillReturnRows(rows)

	events, err := repo.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventID != "ev-2" || events[0].ResourceID != models.ResourceSessions {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	// событие уровня движка хранится с пустым resource_id
	if events[1].ResourceID != "" || events[1].Kind != models.JournalReconnected {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestJournalRecent_QueryError(t *testing.T) {
	repo, mock, db := newTestJournalRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT event_id, resource_id, kind, detail, at FROM sync_journal").
		WillReturnError(errors.New("no such table: sync_journal"))

	_, err := repo.Recent(context.Background(), 10)
	if !errors.Is(err, ErrExecutingQuery) {
		t.Errorf("expected ErrExecutingQuery, got: %v", err)
	}
}
