package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/utils"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
)

// maxEventWindow bounds the security audit trail of one account. Older
// events fall off the end, newest first.
const maxEventWindow = 50

// Caller identifies the authenticated request performing a store operation.
// SessionID is empty when the token was minted outside a login flow.
type Caller struct {
	UserID    int64
	SessionID string
	IP        string
	UserAgent string
}

// sessionRecord pairs an active session with the signed token that opened
// it, so later requests carrying that token resolve to their own session.
type sessionRecord struct {
	models.ActiveSession
	token string
}

// account is the in-memory state of one demo account. sessions and events
// are kept newest first.
type account struct {
	user        models.User
	prefs       models.Preferences
	profile     models.Profile
	sessions    []sessionRecord
	events      []models.SecurityEvent
	lastLoginAt time.Time
}

// Store holds the in-memory state of the stub settings API: the seeded demo
// account, its five resource documents, active sessions, and the security
// audit trail. All operations are safe for concurrent use.
type Store struct {
	mu sync.Mutex

	byLogin map[string]*account
	byID    map[int64]*account
	nextID  int64

	descriptors map[models.ResourceID]models.ResourceDescriptor
	validator   validators.Validator
	ids         *utils.UUIDGenerator

	logger *logger.Logger
}

// NewStore builds a store seeded with the demo account from app config.
// Returns an error if the demo password cannot be hashed.
func NewStore(app config.ServerApp, validator validators.Validator, log *logger.Logger) (*Store, error) {
	descriptors := make(map[models.ResourceID]models.ResourceDescriptor)
	for _, descriptor := range models.DefaultDescriptors() {
		descriptors[descriptor.ID] = descriptor
	}

	s := &Store{
		byLogin:     make(map[string]*account),
		byID:        make(map[int64]*account),
		descriptors: descriptors,
		validator:   validator,
		ids:         utils.NewUUIDGenerator(),
		logger:      log,
	}

	if err := s.seedDemoAccount(app.DemoLogin, app.DemoPassword); err != nil {
		return nil, err
	}

	log.Info().Str("login", app.DemoLogin).Msg("stub settings store seeded with demo account")
	return s, nil
}

func (s *Store) seedDemoAccount(login, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	acc := &account{
		user: models.User{
			UserID:       s.nextID,
			Login:        login,
			Name:         "Dana Weber",
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		},
		prefs: models.DefaultPreferences(),
		profile: models.Profile{
			FirstName: "Dana",
			LastName:  "Weber",
			Email:     "dana.weber@riskdesk.example",
			Company:   "RiskDesk GmbH",
			Position:  "Credit Risk Analyst",
		},
	}

	s.byLogin[login] = acc
	s.byID[acc.user.UserID] = acc
	return nil
}

// Authenticate checks the credentials against the stored bcrypt hash.
// A wrong password for a known login is recorded in the account's audit
// trail. Returns [ErrInvalidCredentials] on any mismatch.
func (s *Store) Authenticate(login, password, ip, userAgent string) (models.User, error) {
	s.mu.Lock()
	acc, ok := s.byLogin[login]
	var hash string
	if ok {
		hash = acc.user.PasswordHash
	}
	s.mu.Unlock()

	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	// bcrypt is deliberately slow, compare outside the lock
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.mu.Lock()
		s.appendEventLocked(acc, models.EventLoginFailed, ip, userAgent)
		s.mu.Unlock()
		return models.User{}, ErrInvalidCredentials
	}

	return acc.user, nil
}

// OpenSession registers a new authenticated session owned by the given
// signed token, records the login event, and updates the last-login time.
func (s *Store) OpenSession(userID int64, token, ip, userAgent string) (models.ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return models.ActiveSession{}, ErrUnknownUser
	}

	now := time.Now()
	session := sessionRecord{
		ActiveSession: models.ActiveSession{
			SessionID:  s.ids.Generate(),
			Device:     deviceLabel(userAgent),
			IP:         ip,
			CreatedAt:  now,
			LastSeenAt: now,
		},
		token: token,
	}

	acc.sessions = append([]sessionRecord{session}, acc.sessions...)
	acc.lastLoginAt = now
	s.appendEventLocked(acc, models.EventLogin, ip, userAgent)

	return session.ActiveSession, nil
}

// ResolveSession finds the session opened with the given signed token and
// bumps its last-seen time. The second return value reports whether the
// token owns a session.
func (s *Store) ResolveSession(userID int64, token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[userID]
	if !ok {
		return "", false
	}

	for i := range acc.sessions {
		if acc.sessions[i].token == token {
			acc.sessions[i].LastSeenAt = time.Now()
			return acc.sessions[i].SessionID, true
		}
	}

	return "", false
}

// Document returns the current JSON document of the resource. The sessions
// document marks the caller's own session via caller.SessionID.
func (s *Store) Document(caller Caller, id models.ResourceID) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[caller.UserID]
	if !ok {
		return nil, ErrUnknownUser
	}

	return s.documentLocked(acc, id, caller.SessionID)
}

// ApplyPatch merges an RFC 7386 patch into an editable resource document,
// validates the result as a whole, and stores it. The returned document is
// the authoritative post-write state. Read-only fields keep their stored
// values regardless of what the patch says.
func (s *Store) ApplyPatch(ctx context.Context, caller Caller, id models.ResourceID, patch json.RawMessage) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[caller.UserID]
	if !ok {
		return nil, ErrUnknownUser
	}

	descriptor, known := s.descriptors[id]
	if !known {
		return nil, ErrUnknownResource
	}
	if !descriptor.Editable {
		return nil, ErrResourceNotEditable
	}

	current, err := s.documentLocked(acc, id, "")
	if err != nil {
		return nil, err
	}

	merged, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}

	switch id {
	case models.ResourcePreferences:
		var next models.Preferences
		if err := json.Unmarshal(merged, &next); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
		}
		if err := s.validator.Validate(ctx, next); err != nil {
			return nil, err
		}
		acc.prefs = next

	case models.ResourceProfile:
		var next models.Profile
		if err := json.Unmarshal(merged, &next); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
		}
		// two-factor enrollment is a separate flow, the document cannot
		// toggle it
		next.TwoFactorEnabled = acc.profile.TwoFactorEnabled
		if err := s.validator.Validate(ctx, next); err != nil {
			return nil, err
		}
		acc.profile = next
	}

	s.appendEventLocked(acc, models.EventSettingsChanged, caller.IP, caller.UserAgent)
	s.logger.Debug().Str("resource", string(id)).Int64("user_id", caller.UserID).Msg("settings document updated")

	return s.documentLocked(acc, id, caller.SessionID)
}

// ExecuteAction runs a non-CRUD action declared by the resource descriptor
// and returns the post-action document. The caller's own session survives
// both terminate actions.
func (s *Store) ExecuteAction(ctx context.Context, caller Caller, id models.ResourceID, action string, body json.RawMessage) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[caller.UserID]
	if !ok {
		return nil, ErrUnknownUser
	}

	descriptor, known := s.descriptors[id]
	if !known {
		return nil, ErrUnknownResource
	}
	if !slices.Contains(descriptor.Actions, action) {
		return nil, ErrUnknownAction
	}

	switch action {
	case models.ActionTerminateOthers:
		s.terminateOthersLocked(acc, caller)

	case models.ActionTerminate:
		var req struct {
			SessionID string `json:"session_id"`
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadActionBody, err)
			}
		}
		if req.SessionID == "" {
			return nil, fmt.Errorf("%w: session_id is required", ErrBadActionBody)
		}
		if err := s.terminateLocked(acc, caller, req.SessionID); err != nil {
			return nil, err
		}
	}

	return s.documentLocked(acc, id, caller.SessionID)
}

func (s *Store) terminateOthersLocked(acc *account, caller Caller) {
	kept := make([]sessionRecord, 0, 1)
	terminated := 0
	for _, rec := range acc.sessions {
		if rec.SessionID == caller.SessionID {
			kept = append(kept, rec)
			continue
		}
		terminated++
	}

	acc.sessions = kept
	if terminated > 0 {
		s.appendEventLocked(acc, models.EventSessionTerminated, caller.IP, caller.UserAgent)
		s.logger.Debug().Int("terminated", terminated).Int64("user_id", acc.user.UserID).Msg("other sessions terminated")
	}
}

func (s *Store) terminateLocked(acc *account, caller Caller, sessionID string) error {
	if sessionID == caller.SessionID {
		return ErrCurrentSession
	}

	for i, rec := range acc.sessions {
		if rec.SessionID == sessionID {
			acc.sessions = append(acc.sessions[:i], acc.sessions[i+1:]...)
			s.appendEventLocked(acc, models.EventSessionTerminated, caller.IP, caller.UserAgent)
			return nil
		}
	}

	return ErrSessionNotFound
}

func (s *Store) documentLocked(acc *account, id models.ResourceID, currentSessionID string) (json.RawMessage, error) {
	if _, known := s.descriptors[id]; !known {
		return nil, ErrUnknownResource
	}

	var doc any
	switch id {
	case models.ResourcePreferences:
		doc = acc.prefs
	case models.ResourceProfile:
		doc = acc.profile
	case models.ResourceSessions:
		doc = sessionList(acc, currentSessionID)
	case models.ResourceSecurityEvents:
		doc = models.SecurityEventList{
			Events: append([]models.SecurityEvent{}, acc.events...),
			Total:  len(acc.events),
		}
	case models.ResourceOverview:
		doc = overview(acc)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal %s document: %w", id, err)
	}
	return raw, nil
}

func (s *Store) appendEventLocked(acc *account, kind, ip, userAgent string) {
	event := models.SecurityEvent{
		EventID:   s.ids.Generate(),
		Kind:      kind,
		IP:        ip,
		UserAgent: userAgent,
		At:        time.Now(),
	}

	acc.events = append([]models.SecurityEvent{event}, acc.events...)
	if len(acc.events) > maxEventWindow {
		acc.events = acc.events[:maxEventWindow]
	}
}

func sessionList(acc *account, currentSessionID string) models.SessionList {
	list := models.SessionList{
		Sessions: make([]models.ActiveSession, 0, len(acc.sessions)),
		Total:    len(acc.sessions),
	}
	for _, rec := range acc.sessions {
		session := rec.ActiveSession
		session.Current = currentSessionID != "" && session.SessionID == currentSessionID
		list.Sessions = append(list.Sessions, session)
	}
	return list
}

// overview recomputes the aggregate document from the other four resources,
// which is why a write to any of them invalidates a cached overview.
func overview(acc *account) models.Overview {
	alerts := 0
	for _, event := range acc.events {
		if event.Kind == models.EventLoginFailed || event.Kind == models.EventSessionTerminated {
			alerts++
		}
	}

	return models.Overview{
		ActiveSessions:     len(acc.sessions),
		SecurityAlerts:     alerts,
		LastLoginAt:        acc.lastLoginAt,
		ProfileCompletion:  profileCompletion(acc.profile),
		Theme:              acc.prefs.Theme,
		RiskAlertThreshold: acc.prefs.RiskAlertThreshold,
		TwoFactorEnabled:   acc.profile.TwoFactorEnabled,
	}
}

func profileCompletion(p models.Profile) int {
	fields := []string{p.FirstName, p.LastName, p.Email, p.Phone, p.Company, p.Position}
	filled := 0
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

func deviceLabel(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return "unknown client"
	}
	return userAgent
}
