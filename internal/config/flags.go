package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a stub server listen address in format [host]:[port]
//	-b settings API base URL used by the client
//	-d local database file path (SQLite)
//	-c/-config config file path (JSON or YAML)
//	-l/-login account login used by the client
//	-password account password used by the client
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout outbound request timeout (e.g., "10s")
//	-autosave-debounce auto-save quiet period (e.g., "2s")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var baseURL string
	var databaseDSN string
	var configPath string
	var login string
	var password string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var autoSaveDebounce time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&baseURL, "b", "", "Settings API base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database file path")
	flag.StringVar(&configPath, "c", "", "Config file path (JSON or YAML)")
	flag.StringVar(&configPath, "config", "", "Config file path (alias)")
	flag.StringVar(&login, "l", "", "Account login")
	flag.StringVar(&login, "login", "", "Account login (alias)")
	flag.StringVar(&password, "password", "", "Account password")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound request timeout (e.g., 10s)")
	flag.DurationVar(&autoSaveDebounce, "autosave-debounce", 0, "Auto-save quiet period (e.g., 2s)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
			Login:          login,
			Password:       password,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			AutoSaveDebounce: autoSaveDebounce,
		},
		ConfigFilePath: configPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
