// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the settings API of the risk console backend.
//
// The primary abstraction is [SettingsGateway], which decouples the engine
// and service layer from the underlying protocol. The package ships an
// HTTP/REST implementation ([NewHTTPSettingsGateway]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-risk-console/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/settings_gateway_mock.go -package=mock

// SettingsGateway defines transport-agnostic communication with the settings
// API. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
//
// Writes (Patch, Do) are never retried by the gateway: the backend gives no
// idempotency guarantee, and retrying a failed write could apply it twice.
type SettingsGateway interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Login or session restore.
	SetToken(token string)

	// Token returns the bearer token currently stored in the gateway, or an
	// empty string if no token has been set yet.
	Token() string

	// Login authenticates with the settings API using the provided
	// credentials. On success it stores the returned bearer token via
	// SetToken and returns the token together with the account identifier
	// parsed from it. Returns an error if the request fails or the server
	// responds with a non-2xx status.
	Login(ctx context.Context, creds models.Credentials) (models.Token, error)

	// Fetch retrieves the current document of one resource via
	// GET /api/settings/{id}. The returned bytes are the backend's
	// serialized form, untouched, so cached values stay byte-comparable.
	Fetch(ctx context.Context, id models.ResourceID) (json.RawMessage, error)

	// Patch applies an RFC 7386 merge patch to an editable resource via
	// PATCH /api/settings/{id} and returns the authoritative post-write
	// document from the response body. Returns [ErrUnprocessable] (wrapped)
	// when the backend rejects the patched document, [ErrConflict] on a
	// concurrent-write conflict.
	Patch(ctx context.Context, id models.ResourceID, patch json.RawMessage) (json.RawMessage, error)

	// Do executes a non-CRUD action of a resource via
	// POST /api/settings/{id}/actions/{action} and returns the resulting
	// resource document. body may be nil for actions without parameters.
	Do(ctx context.Context, id models.ResourceID, action string, body json.RawMessage) (json.RawMessage, error)

	// Ping probes backend reachability via GET /api/health. It requires no
	// authentication and is used by the reconnect watcher.
	Ping(ctx context.Context) error
}
