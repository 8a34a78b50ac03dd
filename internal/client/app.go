package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-risk-console/internal/adapter"
	"github.com/MKhiriev/go-risk-console/internal/cache"
	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/service"
	"github.com/MKhiriev/go-risk-console/internal/store"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/internal/workers"
	"github.com/MKhiriev/go-risk-console/migrations"
	"github.com/MKhiriev/go-risk-console/models"
)

// statusInterval is how often the run loop reports the aggregate sync status.
const statusInterval = 30 * time.Second

// recentEventsLimit caps the journal tail printed on shutdown.
const recentEventsLimit = 10

// App owns every component of the demo console and runs them as one process.
type App struct {
	cfg      *config.ClientConfig
	services *service.Services
	workers  *workers.Workers
	db       *store.DB
	logger   *logger.Logger
}

// NewApp assembles the full client: config, local database with applied
// migrations, settings gateway, service graph, and background workers.
func NewApp(log *logger.Logger) (*App, error) {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return nil, fmt.Errorf("error getting client config: %w", err)
	}

	db, err := store.NewConnectSQLite(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting local database: %w", err)
	}
	if err = migrations.Migrate(db.DB); err != nil {
		return nil, fmt.Errorf("error migrating local database: %w", err)
	}

	gateway, err := adapter.NewHTTPSettingsGateway(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("error creating settings gateway: %w", err)
	}

	services := service.NewServices(gateway, store.NewStorages(db, log), cfg, log)

	ws := workers.NewWorkers(
		workers.NewJournalFlusher(services.Journal, cfg.Sync.JournalFlushInterval, log),
		workers.NewReconnectWatcher(services.Sync),
	)

	return &App{
		cfg:      cfg,
		services: services,
		workers:  ws,
		db:       db,
		logger:   log,
	}, nil
}

// Run signs in, subscribes every composed resource, starts the background
// workers, and reports sync status until the process receives a stop signal.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()
	defer a.close()

	if err := a.signIn(ctx); err != nil {
		return err
	}

	subs, err := a.subscribeAll()
	if err != nil {
		return err
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	workersDone := make(chan struct{})
	go func() {
		a.workers.Run(ctx)
		close(workersDone)
	}()

	if err = a.services.Sync.RefreshAll(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("initial refresh finished with errors")
	}
	a.reportStatus()

	if err = a.sampleEdit(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("sample edit failed")
	}

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// дожидаемся финального сброса журнала
			<-workersDone
			a.printRecentEvents()
			a.logger.Info().Msg("client shut down gracefully")
			return nil
		case <-ticker.C:
			a.reportStatus()
		}
	}
}

// signIn restores the saved session if one is still valid, otherwise logs in
// with the configured credentials.
func (a *App) signIn(ctx context.Context) error {
	if _, err := a.services.Auth.Restore(ctx); err == nil {
		a.logger.Info().Msg("saved session restored")
		return nil
	} else if !errors.Is(err, service.ErrNotAuthenticated) {
		a.logger.Warn().Err(err).Msg("error restoring saved session, logging in again")
	}

	creds := models.Credentials{
		Login:    a.cfg.Adapter.Login,
		Password: a.cfg.Adapter.Password,
	}
	token, err := a.services.Auth.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("error logging in: %w", err)
	}
	a.logger.Info().Time("expires_at", token.ExpiresAt()).Msg("logged in")

	return nil
}

// subscribeAll registers every composed resource with its default polling
// interval and reconnect refetch enabled.
func (a *App) subscribeAll() ([]*cache.Subscription, error) {
	descriptors := models.DefaultDescriptors()
	subs := make([]*cache.Subscription, 0, len(descriptors))

	for _, d := range descriptors {
		sub, err := a.services.Sync.Subscribe(d.ID, models.SubscriptionConfig{
			Interval:           d.Interval,
			Enabled:            true,
			RefetchOnReconnect: true,
		})
		if err != nil {
			return nil, fmt.Errorf("error subscribing to %s: %w", d.ID, err)
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// sampleEdit pushes one preferences change through the auto-save path so a
// demo run exercises the optimistic write pipeline end to end: draft, the
// debounced save, commit, and sibling invalidation.
func (a *App) sampleEdit(ctx context.Context) error {
	snap, err := a.services.Sync.Read(models.ResourcePreferences)
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	if snap.Value == nil {
		return errors.New("preferences not loaded yet")
	}

	var prefs models.Preferences
	if err = json.Unmarshal(snap.Value, &prefs); err != nil {
		return fmt.Errorf("decode preferences: %w", err)
	}

	next := models.ThemeDark
	if prefs.Theme == models.ThemeDark {
		next = models.ThemeLight
	}

	if err = a.services.AutoSave.OnFieldChange(ctx, models.ResourcePreferences, validators.FieldTheme, next); err != nil {
		return fmt.Errorf("draft theme: %w", err)
	}
	if err = a.services.AutoSave.SaveNow(ctx, models.ResourcePreferences); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	a.logger.Info().Str("theme", next).Msg("preferences saved through auto-save")
	return nil
}

func (a *App) reportStatus() {
	status := a.services.Sync.Status()
	a.logger.Info().
		Bool("connected", status.IsConnected).
		Bool("loading", status.IsLoading).
		Time("last_update", status.LastUpdate).
		Msg("sync status")
}

// printRecentEvents tails the persisted sync journal, newest first.
func (a *App) printRecentEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, err := a.services.Journal.Recent(ctx, recentEventsLimit)
	if err != nil {
		a.logger.Warn().Err(err).Msg("error reading sync journal")
		return
	}

	for _, event := range events {
		a.logger.Info().
			Str("kind", event.Kind).
			Str("resource", string(event.ResourceID)).
			Str("detail", event.Detail).
			Time("at", event.At).
			Msg("journal event")
	}
}

// close releases the engine and the local database, in that order: the final
// journal flush still needs the connection.
func (a *App) close() {
	a.services.Close()

	if err := a.db.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("error closing local database")
	}
}
