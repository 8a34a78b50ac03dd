package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-risk-console/internal/adapter"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/store"
	"github.com/MKhiriev/go-risk-console/internal/utils"
	"github.com/MKhiriev/go-risk-console/models"
)

// authService implements [AuthService] over the settings gateway and the
// local auth session repository.
type authService struct {
	gateway  adapter.SettingsGateway
	sessions store.AuthSessionRepository

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService].
func NewAuthService(gateway adapter.SettingsGateway, sessions store.AuthSessionRepository, logger *logger.Logger) AuthService {
	return &authService{
		gateway:  gateway,
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates and saves the session locally. Persistence is
// best-effort: a login that works now should not fail because the local
// database is momentarily unhappy.
func (s *authService) Login(ctx context.Context, creds models.Credentials) (models.Token, error) {
	token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return models.Token{}, fmt.Errorf("login: %w", err)
	}

	session := models.AuthSession{
		Login:     creds.Login,
		Token:     token.SignedString,
		SavedAt:   time.Now(),
		ExpiresAt: token.ExpiresAt(),
	}
	if err = s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn().Err(err).Msg("login succeeded but session was not persisted")
	} else {
		s.logger.Debug().Str("login", creds.Login).Msg("auth session persisted")
	}

	return token, nil
}

// Restore installs the saved token into the gateway if it is still valid.
func (s *authService) Restore(ctx context.Context) (models.Token, error) {
	session, err := s.sessions.Last(ctx)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.Token{}, ErrNotAuthenticated
		}
		return models.Token{}, fmt.Errorf("restore session: %w", err)
	}

	if !session.Valid(time.Now()) {
		// протухшую сессию держать нет смысла
		if err = s.sessions.DeleteAll(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop expired session")
		}
		return models.Token{}, fmt.Errorf("%w: saved session expired", ErrNotAuthenticated)
	}

	s.gateway.SetToken(session.Token)

	token := models.Token{SignedString: session.Token}
	if !session.ExpiresAt.IsZero() {
		token.RegisteredClaims = jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(session.ExpiresAt)}
	}
	if userID, parseErr := utils.ParseUserIDFromJWT(session.Token); parseErr == nil {
		token.UserID = userID
	}

	s.logger.Debug().Str("login", session.Login).Msg("auth session restored")
	return token, nil
}

// Logout clears the gateway token and the saved session.
func (s *authService) Logout(ctx context.Context) error {
	s.gateway.SetToken("")
	if err := s.sessions.DeleteAll(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
