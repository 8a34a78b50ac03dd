// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-risk-console application. It aggregates all sub-configurations and is
// populated by merging values from a .env file, environment variables,
// command-line flags, an optional config file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters of the stub settings API and the demo
	// account it seeds at startup.
	App App `envPrefix:"APP_"`

	// Adapter holds settings of the outbound HTTP gateway the client uses
	// to reach the settings API.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Server holds network address and timeout settings for the stub
	// settings API server.
	Server Server `envPrefix:"SERVER_"`

	// Storage holds the local client database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds the timing knobs of the synchronization engine.
	Sync Sync `envPrefix:"SYNC_"`

	// ConfigFilePath is the optional path to a JSON or YAML configuration
	// file. When non-empty, the file is parsed and merged underneath the
	// values already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds stub-API-level configuration values that control token lifecycle
// and the seeded demo account.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Must be kept confidential outside development setups.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// It is validated on every authenticated request.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a JWT token remains valid after
	// issuance (e.g. "1h", "30m").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// DemoLogin is the login of the account the stub seeds at startup.
	// Env: APP_DEMO_LOGIN
	DemoLogin string `env:"DEMO_LOGIN"`

	// DemoPassword is the password of the seeded demo account. It is
	// bcrypt-hashed before being stored in the stub.
	// Env: APP_DEMO_PASSWORD
	DemoPassword string `env:"DEMO_PASSWORD"`
}

// Adapter holds the outbound transport settings of the client.
type Adapter struct {
	// BaseURL is the root URL of the settings API
	// (e.g. "http://localhost:8080").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every outbound request of the gateway
	// (e.g. "10s"). Zero disables the bound.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Login is the account the client authenticates as.
	// Env: ADAPTER_LOGIN
	Login string `env:"LOGIN"`

	// Password is the password used at login. It is sent once and never
	// persisted by the client.
	// Env: ADAPTER_PASSWORD
	Password string `env:"PASSWORD"`
}

// Server holds network and timeout settings for the stub settings API.
type Server struct {
	// HTTPAddress is the TCP address on which the stub listens,
	// in "host:port" format (e.g. "localhost:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local client database.
type Storage struct {
	// DB holds the SQLite connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local client database.
type DB struct {
	// DSN is the SQLite file path used by the client for its saved auth
	// session and sync journal (e.g. "risk-console.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds the timing knobs of the synchronization engine.
type Sync struct {
	// AutoSaveDebounce is the quiet period after the last field edit
	// before the auto-save coordinator persists the draft (e.g. "2s").
	// Env: SYNC_AUTOSAVE_DEBOUNCE
	AutoSaveDebounce time.Duration `env:"AUTOSAVE_DEBOUNCE"`

	// JournalFlushInterval is how often buffered sync-journal events are
	// written to the local database.
	// Env: SYNC_JOURNAL_FLUSH_INTERVAL
	JournalFlushInterval time.Duration `env:"JOURNAL_FLUSH_INTERVAL"`

	// ReconnectInitialInterval is the first delay of the exponential
	// backoff used while probing an unreachable backend.
	// Env: SYNC_RECONNECT_INITIAL_INTERVAL
	ReconnectInitialInterval time.Duration `env:"RECONNECT_INITIAL_INTERVAL"`

	// ReconnectMaxInterval caps the backoff delay between probes.
	// Env: SYNC_RECONNECT_MAX_INTERVAL
	ReconnectMaxInterval time.Duration `env:"RECONNECT_MAX_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win; later sources fill remaining gaps):
//  1. Environment variables (after loading an optional .env file)
//  2. Command-line flags
//  3. Config file (JSON or YAML, path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv().
		withEnv().
		withFlags().
		withFile().
		withDefaults().
		build()
}
