package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ── Duration ──────────────────────────────────────────────────────────────────

// TestDuration_UnmarshalJSON_String verifies parsing of human-readable
// duration strings.
func TestDuration_UnmarshalJSON_String(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1h30m"`), &d))
	assert.Equal(t, 90*time.Minute, time.Duration(d))
}

// TestDuration_UnmarshalJSON_Number verifies parsing of raw nanosecond
// numbers.
func TestDuration_UnmarshalJSON_Number(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`5000000000`), &d))
	assert.Equal(t, 5*time.Second, time.Duration(d))
}

// TestDuration_UnmarshalJSON_Invalid verifies that garbage strings are
// rejected.
func TestDuration_UnmarshalJSON_Invalid(t *testing.T) {
	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
}

// TestDuration_MarshalJSON verifies the round trip back to a string form.
func TestDuration_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(data))
}

// TestDuration_UnmarshalYAML verifies parsing of duration strings from YAML.
func TestDuration_UnmarshalYAML(t *testing.T) {
	var out struct {
		Timeout Duration `yaml:"timeout"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("timeout: 45s"), &out))
	assert.Equal(t, 45*time.Second, time.Duration(out.Timeout))
}

// ── parseFile ─────────────────────────────────────────────────────────────────

// TestParseFile_JSON verifies the full JSON file mapping into
// StructuredConfig.
func TestParseFile_JSON(t *testing.T) {
	path := writeTempConfigFile(t, "full-*.json", `{
		"app": {"token_issuer": "file-issuer", "token_duration": "2h"},
		"adapter": {"base_url": "http://file-host:8080", "login": "file-user"},
		"storage": {"db": {"dsn": "file.db"}},
		"sync": {"journal_flush_interval": "9s"}
	}`)

	cfg, err := parseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "http://file-host:8080", cfg.Adapter.BaseURL)
	assert.Equal(t, "file-user", cfg.Adapter.Login)
	assert.Equal(t, "file.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 9*time.Second, cfg.Sync.JournalFlushInterval)
}

// TestParseFile_YAML verifies the full YAML file mapping into
// StructuredConfig.
func TestParseFile_YAML(t *testing.T) {
	path := writeTempConfigFile(t, "full-*.yml", `
app:
  token_sign_key: yaml-key
server:
  http_address: localhost:7070
  request_timeout: 20s
sync:
  reconnect_max_interval: 1m
`)

	cfg, err := parseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml-key", cfg.App.TokenSignKey)
	assert.Equal(t, "localhost:7070", cfg.Server.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Sync.ReconnectMaxInterval)
}

// TestParseFile_UnsupportedExtension verifies the sentinel for unknown
// formats.
func TestParseFile_UnsupportedExtension(t *testing.T) {
	path := writeTempConfigFile(t, "full-*.ini", `key=value`)

	_, err := parseFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedConfigFile)
}

// TestParseFile_MalformedJSON verifies that invalid JSON is reported.
func TestParseFile_MalformedJSON(t *testing.T) {
	path := writeTempConfigFile(t, "bad-*.json", `{"app":`)

	_, err := parseFile(path)
	assert.Error(t, err)
}
