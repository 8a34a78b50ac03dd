// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/logger"
)

// defaultFlushInterval is used when the configured interval is missing.
const defaultFlushInterval = 5 * time.Second

// JournalFlusher periodically moves buffered journal events into the local
// database. On shutdown it runs one final flush so recorded events are not
// lost with the process.
type JournalFlusher struct {
	journal  JournalFlushQueue
	interval time.Duration

	logger *logger.Logger
}

// NewJournalFlusher constructs a flusher draining journal every interval.
func NewJournalFlusher(journal JournalFlushQueue, interval time.Duration, log *logger.Logger) *JournalFlusher {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	return &JournalFlusher{
		journal:  journal,
		interval: interval,
		logger:   log,
	}
}

func (w *JournalFlusher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.finalFlush()
			return
		case <-ticker.C:
			if err := w.journal.Flush(ctx); err != nil {
				// события остаются в буфере, следующий тик повторит
				w.logger.Warn().Err(err).Msg("journal flush failed")
			}
		}
	}
}

// finalFlush drains what is still buffered. The run context is already done,
// so the write gets its own short deadline.
func (w *JournalFlusher) finalFlush() {
	if w.journal.Pending() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.journal.Flush(ctx); err != nil {
		w.logger.Warn().Err(err).Int("events", w.journal.Pending()).Msg("final journal flush failed")
		return
	}
	w.logger.Debug().Msg("journal drained on shutdown")
}
