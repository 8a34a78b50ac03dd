package config

import (
	"fmt"
	"time"
)

// ServerApp holds the token and demo-account settings of the stub API.
type ServerApp struct {
	// TokenSignKey is the JWT signing secret.
	TokenSignKey string
	// TokenIssuer is the "iss" claim of issued tokens.
	TokenIssuer string
	// TokenDuration is the validity window of issued tokens.
	TokenDuration time.Duration
	// DemoLogin is the login of the seeded demo account.
	DemoLogin string
	// DemoPassword is the password of the seeded demo account.
	DemoPassword string
}

// ServerHTTP holds the inbound transport settings of the stub API.
type ServerHTTP struct {
	// Address is the listen address in "host:port" format.
	Address string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
}

// ServerConfig is the stub settings API view of [StructuredConfig].
type ServerConfig struct {
	// App contains token and demo-account settings.
	App ServerApp
	// HTTP contains listen address and timeout settings.
	HTTP ServerHTTP
}

// GetServerConfig builds and validates the stub API config view from the
// merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			DemoLogin:     cfg.App.DemoLogin,
			DemoPassword:  cfg.App.DemoPassword,
		},
		HTTP: ServerHTTP{
			Address:        cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	}

	return serverCfg, serverCfg.validate()
}
