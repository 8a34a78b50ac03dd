package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/store"
	"github.com/MKhiriev/go-risk-console/models"
)

// journalService implements [JournalService]. It is the engine's journal
// recorder: Record only appends to an in-memory buffer (it runs under the
// cache mutex), while the periodic Flush moves the buffer to SQLite.
type journalService struct {
	repo store.JournalRepository

	logger *logger.Logger

	mu     sync.Mutex
	buffer []models.JournalEvent
}

// NewJournalService constructs a [JournalService] over the given repository.
func NewJournalService(repo store.JournalRepository, logger *logger.Logger) JournalService {
	return &journalService{
		repo:   repo,
		logger: logger,
	}
}

func (s *journalService) Record(event models.JournalEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	s.mu.Lock()
	s.buffer = append(s.buffer, event)
	s.mu.Unlock()
}

// Flush writes the buffered events in one batch. On failure the events are
// put back in front of anything recorded meanwhile, so order survives and
// the next flush retries them.
func (s *journalService) Flush(ctx context.Context) error {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	if err := s.repo.SaveBatch(ctx, batch); err != nil {
		s.mu.Lock()
		s.buffer = append(batch, s.buffer...)
		s.mu.Unlock()
		return fmt.Errorf("flush journal: %w", err)
	}

	s.logger.Debug().Int("events", len(batch)).Msg("journal batch flushed")
	return nil
}

func (s *journalService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

func (s *journalService) Recent(ctx context.Context, limit int) ([]models.JournalEvent, error) {
	return s.repo.Recent(ctx, limit)
}
