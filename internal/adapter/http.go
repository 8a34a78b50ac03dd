// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/utils"
	"github.com/MKhiriev/go-risk-console/models"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

type httpSettingsGateway struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPSettingsGateway constructs an HTTP/REST implementation of
// [SettingsGateway]. It normalises and validates the base URL from
// adapterCfg.BaseURL and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPSettingsGateway(adapterCfg config.ClientAdapter, logger *logger.Logger) (SettingsGateway, error) {
	client := utils.NewHTTPClientWithTimeout(adapterCfg.RequestTimeout)
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client.SetBaseURL(baseURL)

	return &httpSettingsGateway{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [SettingsGateway]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests. Safe for concurrent use.
func (h *httpSettingsGateway) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [SettingsGateway]. It returns the bearer token currently
// held by the gateway, or an empty string if none has been set.
func (h *httpSettingsGateway) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login implements [SettingsGateway]. It POSTs the credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header, stored via SetToken, and returned together
// with the user id and expiry parsed from its claims. Returns an error if
// the request fails, the server returns a non-2xx status, or the token
// cannot be parsed.
func (h *httpSettingsGateway) Login(ctx context.Context, creds models.Credentials) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		Post("/api/auth/login")
	if err != nil {
		return models.Token{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse user id: %w", err)
	}
	expiresAt, err := utils.ParseTokenExpiry(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse token expiry: %w", err)
	}

	h.SetToken(token)
	h.logger.Debug().Int64("user_id", userID).Msg("authenticated against settings api")

	return models.Token{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)},
		SignedString:     token,
		UserID:           userID,
	}, nil
}

// Fetch implements [SettingsGateway]. It GETs the resource document from
// GET /api/settings/{id} and returns the response body verbatim, so the
// cached value stays byte-comparable with later fetches. Requires a valid
// bearer token.
func (h *httpSettingsGateway) Fetch(ctx context.Context, id models.ResourceID) (json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).Get("/api/settings/" + string(id))
	if err != nil {
		return nil, fmt.Errorf("fetch %s request: %w", id, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body()), nil
}

// Patch implements [SettingsGateway]. It PATCHes an RFC 7386 merge patch to
// PATCH /api/settings/{id} and returns the authoritative post-write document
// from the response body. The patch is sent exactly once: a failed write is
// reported to the caller, never replayed. Requires a valid bearer token.
func (h *httpSettingsGateway) Patch(ctx context.Context, id models.ResourceID, patch json.RawMessage) (json.RawMessage, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/merge-patch+json").
		SetBody([]byte(patch)).
		Patch("/api/settings/" + string(id))
	if err != nil {
		return nil, fmt.Errorf("patch %s request: %w", id, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body()), nil
}

// Do implements [SettingsGateway]. It POSTs an action request to
// POST /api/settings/{id}/actions/{action} and returns the resulting
// resource document. body may be nil for actions without parameters.
// Requires a valid bearer token.
func (h *httpSettingsGateway) Do(ctx context.Context, id models.ResourceID, action string, body json.RawMessage) (json.RawMessage, error) {
	req := h.authedRequest(ctx).SetHeader("Content-Type", "application/json")
	if len(body) > 0 {
		req.SetBody([]byte(body))
	}

	resp, err := req.Post("/api/settings/" + string(id) + "/actions/" + action)
	if err != nil {
		return nil, fmt.Errorf("action %s on %s request: %w", action, id, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return json.RawMessage(resp.Body()), nil
}

// Ping implements [SettingsGateway]. It GETs the unauthenticated health
// endpoint GET /api/health and reports reachability. Used by the reconnect
// watcher to detect connectivity restoration.
func (h *httpSettingsGateway) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpSettingsGateway) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
