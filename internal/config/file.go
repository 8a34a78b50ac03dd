package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors [StructuredConfig] for file-based sources. It exists so
// durations can be written as human-readable strings ("2s", "1h") in both
// JSON and YAML.
type FileConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration"`
		DemoLogin     string   `json:"demo_login" yaml:"demo_login"`
		DemoPassword  string   `json:"demo_password" yaml:"demo_password"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url" yaml:"base_url"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		Login          string   `json:"login" yaml:"login"`
		Password       string   `json:"password" yaml:"password"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db,omitempty" yaml:"db,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Sync struct {
		AutoSaveDebounce         Duration `json:"autosave_debounce" yaml:"autosave_debounce"`
		JournalFlushInterval     Duration `json:"journal_flush_interval" yaml:"journal_flush_interval"`
		ReconnectInitialInterval Duration `json:"reconnect_initial_interval" yaml:"reconnect_initial_interval"`
		ReconnectMaxInterval     Duration `json:"reconnect_max_interval" yaml:"reconnect_max_interval"`
	} `json:"sync,omitempty" yaml:"sync,omitempty"`
}

// parseFile reads a configuration file and converts it to a
// [StructuredConfig]. The format is chosen by extension: .json is decoded
// with encoding/json, .yaml/.yml with gopkg.in/yaml.v3.
func parseFile(filePath string) (*StructuredConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg FileConfig
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFile, filePath)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  fileCfg.App.TokenSignKey,
			TokenIssuer:   fileCfg.App.TokenIssuer,
			TokenDuration: time.Duration(fileCfg.App.TokenDuration),
			DemoLogin:     fileCfg.App.DemoLogin,
			DemoPassword:  fileCfg.App.DemoPassword,
		},
		Adapter: Adapter{
			BaseURL:        fileCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(fileCfg.Adapter.RequestTimeout),
			Login:          fileCfg.Adapter.Login,
			Password:       fileCfg.Adapter.Password,
		},
		Server: Server{
			HTTPAddress:    fileCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(fileCfg.Server.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN: fileCfg.Storage.DB.DSN,
			},
		},
		Sync: Sync{
			AutoSaveDebounce:         time.Duration(fileCfg.Sync.AutoSaveDebounce),
			JournalFlushInterval:     time.Duration(fileCfg.Sync.JournalFlushInterval),
			ReconnectInitialInterval: time.Duration(fileCfg.Sync.ReconnectInitialInterval),
			ReconnectMaxInterval:     time.Duration(fileCfg.Sync.ReconnectMaxInterval),
		},
		ConfigFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports unmarshaling from
// strings like "1h", "30s" in both JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		var nanos int64
		if err := value.Decode(&nanos); err != nil {
			return err
		}
		*d = Duration(time.Duration(nanos))
		return nil
	}

	tmp, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
