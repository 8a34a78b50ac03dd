// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources. A value set by an
// earlier source wins; later sources only fill fields the earlier ones left
// empty:
//  1. Environment variables (a .env file, when present, is loaded first)
//  2. Command-line flags
//  3. Config file (JSON or YAML, path taken from sources 1–2)
//  4. Built-in defaults
//
// The main entry points are [GetStructuredConfig] for the full merged
// configuration, [GetClientConfig] for the client runtime view and
// [GetServerConfig] for the stub settings API view.
package config
