// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Run blocks until ctx is canceled; the aggregate gives every worker its own
// goroutine.
type Worker interface {
	Run(ctx context.Context)
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context)

// Run calls f(ctx).
func (f WorkerFunc) Run(ctx context.Context) { f(ctx) }

// JournalFlushQueue is the buffered journal the flusher drains.
// Satisfied by service.JournalService.
type JournalFlushQueue interface {
	Flush(ctx context.Context) error
	Pending() int
}

// ReconnectLoop is the engine loop the reconnect worker drives.
// Satisfied by service.SyncOrchestrator.
type ReconnectLoop interface {
	WatchReconnect(ctx context.Context)
}
