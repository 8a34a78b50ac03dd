// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// The merged config is a superset serving both binaries, so it stays
// permissive here; the per-binary views [ClientConfig] and [ServerConfig]
// enforce their own requirements.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.Login == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.AutoSaveDebounce == 0 || cfg.Sync.JournalFlushInterval == 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Sync.ReconnectInitialInterval == 0 || cfg.Sync.ReconnectMaxInterval == 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration == 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.App.DemoLogin == "" || cfg.App.DemoPassword == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.HTTP.Address == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
