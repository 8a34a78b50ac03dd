package stub

import (
	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
)

// Handler is the HTTP layer of the stub settings API. It decodes requests,
// delegates to the in-memory [Store], and maps store errors to statuses.
type Handler struct {
	store *Store
	app   config.ServerApp

	logger *logger.Logger
}

func NewHandler(store *Store, app config.ServerApp, logger *logger.Logger) *Handler {
	logger.Info().Msg("stub settings api handler created")
	return &Handler{
		store:  store,
		app:    app,
		logger: logger,
	}
}
