package service

import (
	"errors"

	"github.com/MKhiriev/go-risk-console/internal/cache"
)

var (
	ErrMutationRejected  = errors.New("mutation rejected by server")
	ErrUnsupportedAction = errors.New("unsupported action for resource")

	ErrNoEditSession = errors.New("no active edit session for resource")
	ErrInvalidDraft  = errors.New("draft has invalid fields")

	ErrNotAuthenticated = errors.New("no valid saved session")
)

// Aliased engine sentinels, so callers can match either spelling with
// [errors.Is] without importing the cache package.
var (
	ErrMutationPending = cache.ErrMutationPending
	ErrUnknownResource = cache.ErrUnknownResource
)
