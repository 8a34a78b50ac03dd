package workers

import "context"

// ReconnectWatcher drives the engine's reconnect loop as a background worker.
// All detection and backoff logic lives in the loop itself, the worker only
// ties its lifetime to the application context.
type ReconnectWatcher struct {
	sync ReconnectLoop
}

func NewReconnectWatcher(sync ReconnectLoop) *ReconnectWatcher {
	return &ReconnectWatcher{sync: sync}
}

func (w *ReconnectWatcher) Run(ctx context.Context) {
	w.sync.WatchReconnect(ctx)
}
