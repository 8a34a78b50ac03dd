package stub

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/utils"
)

// auth enforces JWT-based authentication on the settings routes.
//
// It extracts the bearer token from the "Authorization" header, verifies its
// signature, issuer, and expiry via [utils.ValidateAndParseJWTToken], and on
// success stores the user id in the request context under
// [utils.UserIDCtxKey]. When the token also owns a login session, the
// session id is stored under [utils.SessionIDCtxKey] so the sessions
// document can mark the caller's own entry and the terminate actions can
// spare it. Requests failing any of these checks are rejected with 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseJWTToken(tokenString, h.app.TokenSignKey, h.app.TokenIssuer)
		if err != nil {
			log.Err(err).Msg("token rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, token.UserID)
		if sessionID, ok := h.store.ResolveSession(token.UserID, tokenString); ok {
			ctx = context.WithValue(ctx, utils.SessionIDCtxKey, sessionID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token from a raw
// "Authorization" header value of the form "<scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
