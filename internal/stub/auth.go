package stub

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/MKhiriev/go-risk-console/internal/app"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/utils"
	"github.com/MKhiriev/go-risk-console/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	ip := clientIP(r)
	userAgent := r.UserAgent()

	user, err := h.store.Authenticate(creds.Login, creds.Password, ip, userAgent)
	if err != nil {
		log.Err(err).Str("login", creds.Login).Msg("login rejected")
		http.Error(w, app.MsgInvalidLoginPassword, http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWTToken(h.app.TokenIssuer, user.UserID, h.app.TokenDuration, h.app.TokenSignKey)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, err = h.store.OpenSession(user.UserID, token.SignedString, ip, userAgent); err != nil {
		log.Err(err).Msg("opening session failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	log.Debug().Int64("user_id", user.UserID).Msg("user successfully logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

// health is the unauthenticated liveness probe polled by the reconnect
// watcher on the client side.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// clientIP strips the port from the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
