// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-risk-console/models"
)

// Fetcher is the read side of the backend boundary, the only network
// operation the cache performs on its own. [adapter.SettingsGateway]
// satisfies it.
type Fetcher interface {
	// Fetch returns the current backend document of one resource.
	Fetch(ctx context.Context, id models.ResourceID) (json.RawMessage, error)
}

// Recorder receives engine lifecycle events for the local sync journal.
//
// Record is called with the cache mutex held and therefore must not block:
// implementations are expected to buffer in memory and flush elsewhere.
type Recorder interface {
	Record(event models.JournalEvent)
}
