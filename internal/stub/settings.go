package stub

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-risk-console/internal/app"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/utils"
	"github.com/MKhiriev/go-risk-console/models"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		log.Error().Str("func", "*Handler.getSettings").Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}

	id := models.ResourceID(chi.URLParam(r, "resource"))
	doc, err := h.store.Document(caller, id)
	if err != nil {
		log.Err(err).Str("resource", string(id)).Msg("error reading settings document")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	writeDocument(w, doc)
}

func (h *Handler) patchSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		log.Error().Str("func", "*Handler.patchSettings").Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}

	patch, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Msg(app.MsgPatchBodyNotRead)
		http.Error(w, app.MsgPatchBodyNotRead, http.StatusBadRequest)
		return
	}
	if len(patch) == 0 {
		log.Error().Msg(app.MsgEmptyPatchBody)
		http.Error(w, app.MsgEmptyPatchBody, http.StatusBadRequest)
		return
	}

	id := models.ResourceID(chi.URLParam(r, "resource"))
	doc, err := h.store.ApplyPatch(ctx, caller, id, patch)
	if err != nil {
		log.Err(err).Str("resource", string(id)).Msg("patch rejected")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	writeDocument(w, doc)
}

func (h *Handler) executeAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		log.Error().Str("func", "*Handler.executeAction").Msg(app.MsgNoUserIDProvided)
		http.Error(w, app.MsgNoUserIDProvided, http.StatusUnauthorized)
		return
	}

	// body is optional, terminate-others sends none
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Err(err).Msg(app.MsgActionBodyNotRead)
		http.Error(w, app.MsgActionBodyNotRead, http.StatusBadRequest)
		return
	}

	id := models.ResourceID(chi.URLParam(r, "resource"))
	action := chi.URLParam(r, "action")

	doc, err := h.store.ExecuteAction(ctx, caller, id, action, body)
	if err != nil {
		log.Err(err).Str("resource", string(id)).Str("action", action).Msg("action rejected")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	writeDocument(w, doc)
}

// callerFromRequest assembles the store-facing caller identity from the
// request context populated by the auth middleware.
func callerFromRequest(r *http.Request) (Caller, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return Caller{}, false
	}

	sessionID, _ := utils.GetSessionIDFromContext(r.Context())

	return Caller{
		UserID:    userID,
		SessionID: sessionID,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	}, true
}

func writeDocument(w http.ResponseWriter, doc json.RawMessage) {
	utils.WriteRawJSON(w, doc, http.StatusOK)
}
