package service

import (
	"github.com/MKhiriev/go-risk-console/internal/adapter"
	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/store"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
)

// Services bundles every client-side service around one shared resource
// cache. The cache itself stays private to the bundle: the presentation
// layer talks through the service interfaces only.
type Services struct {
	Auth      AuthService
	Mutations MutationExecutor
	AutoSave  AutoSaveCoordinator
	Sync      SyncOrchestrator
	Journal   JournalService

	cache *cache.Cache
}

// NewServices wires the full client service graph over the given gateway and
// local storages.
func NewServices(gateway adapter.SettingsGateway, storages *store.Storages, cfg *config.ClientConfig, log *logger.Logger) *Services {
	descriptors := models.DefaultDescriptors()

	journalSvc := NewJournalService(storages.Journal, log)
	engine := cache.NewCache(gateway, descriptors, journalSvc, log)
	mutationSvc := NewMutationService(engine, gateway, descriptors, log)
	autoSaveSvc := NewAutoSaveService(mutationSvc, validators.NewSettingsValidator(), engine, cfg.Sync.AutoSaveDebounce, log)
	syncSvc := NewSyncOrchestrator(engine, gateway, journalSvc, cfg.Sync, log)
	authSvc := NewAuthService(gateway, storages.AuthSessions, log)

	return &Services{
		Auth:      authSvc,
		Mutations: mutationSvc,
		AutoSave:  autoSaveSvc,
		Sync:      syncSvc,
		Journal:   journalSvc,
		cache:     engine,
	}
}

// Close shuts the engine down: cancels every edit session, then stops all
// pollers and waits for them to exit.
func (s *Services) Close() {
	s.AutoSave.Close()
	s.cache.Close()
}
