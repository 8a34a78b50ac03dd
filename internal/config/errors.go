package config

import "errors"

// Validation errors returned by the config views when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing base URL, login, or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid token or demo-account settings
	// required by the stub settings API.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidSyncConfigs indicates invalid engine timing settings
	// (for example, a zero auto-save debounce).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidServerConfigs indicates invalid stub API transport settings
	// (for example, a missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrUnsupportedConfigFile indicates a config file whose extension is
	// neither JSON nor YAML.
	ErrUnsupportedConfigFile = errors.New("unsupported config file format")
)
