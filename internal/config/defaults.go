package config

import "time"

// defaultConfig returns the built-in defaults used as the lowest-priority
// merge source. They are tuned for the local development pairing of
// cmd/client and cmd/server; production deployments are expected to
// configure every secret explicitly.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  "dev-sign-key",
			TokenIssuer:   "settings-api",
			TokenDuration: 24 * time.Hour,
			DemoLogin:     "analyst",
			DemoPassword:  "risk-demo",
		},
		Adapter: Adapter{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
			Login:          "analyst",
			Password:       "risk-demo",
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Storage: Storage{
			DB: DB{
				DSN: "risk-console.db",
			},
		},
		Sync: Sync{
			AutoSaveDebounce:         2 * time.Second,
			JournalFlushInterval:     5 * time.Second,
			ReconnectInitialInterval: time.Second,
			ReconnectMaxInterval:     30 * time.Second,
		},
	}
}
