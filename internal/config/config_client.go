package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the settings API root URL used by the client.
	BaseURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Login is the account the client authenticates as.
	Login string
	// Password is the account password used once at login.
	Password string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync contains the engine timing knobs relevant to the client.
type ClientSync struct {
	// AutoSaveDebounce is the quiet period before a dirty edit session is
	// persisted.
	AutoSaveDebounce time.Duration
	// JournalFlushInterval is how often buffered journal events are
	// written to the local database.
	JournalFlushInterval time.Duration
	// ReconnectInitialInterval is the first backoff delay of the
	// reconnect watcher.
	ReconnectInitialInterval time.Duration
	// ReconnectMaxInterval caps the reconnect backoff delay.
	ReconnectMaxInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport settings and credentials.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains engine timing settings.
	Sync ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Login:          cfg.Adapter.Login,
			Password:       cfg.Adapter.Password,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			AutoSaveDebounce:         cfg.Sync.AutoSaveDebounce,
			JournalFlushInterval:     cfg.Sync.JournalFlushInterval,
			ReconnectInitialInterval: cfg.Sync.ReconnectInitialInterval,
			ReconnectMaxInterval:     cfg.Sync.ReconnectMaxInterval,
		},
	}

	return clientCfg, clientCfg.validate()
}
