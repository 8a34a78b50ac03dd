package stub

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/utils"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestRouter builds the full stub API over a freshly seeded store.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	app := testServerApp()
	store, err := NewStore(app, validators.NewSettingsValidator(), logger.Nop())
	require.NoError(t, err)

	return NewHandler(store, app, logger.Nop()).Init()
}

// doLogin POSTs credentials to the login route and returns the recorder.
func doLogin(t *testing.T, router http.Handler, login, password string) *httptest.ResponseRecorder {
	t.Helper()

	body := fmt.Sprintf(`{"login": %q, "password": %q}`, login, password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// bearerToken logs the demo account in and returns the issued token string.
func bearerToken(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doLogin(t, router, testDemoLogin, testDemoPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	header := rec.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "), "ожидался заголовок Bearer, получен %q", header)
	return strings.TrimPrefix(header, "Bearer ")
}

// doAuthed performs an authenticated request against the router.
func doAuthed(t *testing.T, router http.Handler, token, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// getSessions reads and decodes the sessions document.
func getSessions(t *testing.T, router http.Handler, token string) models.SessionList {
	t.Helper()

	rec := doAuthed(t, router, token, http.MethodGet, "/api/settings/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.SessionList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

// TestLogin_IssuesValidBearerToken verifies that the issued token passes the
// same validation the auth middleware performs.
func TestLogin_IssuesValidBearerToken(t *testing.T) {
	router := newTestRouter(t)

	token := bearerToken(t, router)

	app := testServerApp()
	parsed, err := utils.ValidateAndParseJWTToken(token, app.TokenSignKey, app.TokenIssuer)
	require.NoError(t, err)
	assert.NotZero(t, parsed.UserID)
}

// TestLogin_WrongPassword verifies that bad credentials map to
// 401 Unauthorized.
func TestLogin_WrongPassword(t *testing.T) {
	router := newTestRouter(t)

	rec := doLogin(t, router, testDemoLogin, "nope")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid login or password")
}

// TestLogin_InvalidJSON verifies that a malformed request body results in
// 400 Bad Request.
func TestLogin_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{invalid json}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON was passed")
}

// ─────────────────────────────────────────────
// health
// ─────────────────────────────────────────────

// TestHealth_NoAuthRequired verifies that the liveness probe answers without
// a token, since the reconnect watcher may call it while not logged in.
func TestHealth_NoAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// ─────────────────────────────────────────────
// auth middleware
// ─────────────────────────────────────────────

// TestSettingsRoutes_RequireAuth verifies that every settings route rejects
// requests without an Authorization header.
func TestSettingsRoutes_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/settings/preferences"},
		{http.MethodPatch, "/api/settings/preferences"},
		{http.MethodPost, "/api/settings/sessions/actions/terminate-others"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), ErrEmptyAuthorizationHeader.Error())
		})
	}
}

// TestAuth_GarbageToken verifies that a token failing signature validation
// is rejected with 401.
func TestAuth_GarbageToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doAuthed(t, router, "not.a.token", http.MethodGet, "/api/settings/preferences", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestAuth_MalformedHeader verifies the 401 paths for headers that cannot be
// split into scheme and token.
func TestAuth_MalformedHeader(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"scheme only", "Bearer", ErrInvalidAuthorizationHeader.Error()},
		{"empty token", "Bearer ", ErrEmptyToken.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/settings/preferences", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantMsg)
		})
	}
}

// ─────────────────────────────────────────────
// GET /api/settings/{resource}
// ─────────────────────────────────────────────

// TestGetSettings_ReturnsPreferences verifies that a fresh account serves
// the default preferences document as JSON.
func TestGetSettings_ReturnsPreferences(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodGet, "/api/settings/preferences", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	wantDoc, err := json.Marshal(models.DefaultPreferences())
	require.NoError(t, err)
	assert.JSONEq(t, string(wantDoc), rec.Body.String())
}

// TestGetSettings_UnknownResource verifies that a resource id outside the
// registry maps to 404 Not Found.
func TestGetSettings_UnknownResource(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodGet, "/api/settings/billing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestGetSettings_SessionsMarkCurrent verifies that the session opened by
// the login is marked as the caller's own.
func TestGetSettings_SessionsMarkCurrent(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	list := getSessions(t, router, token)

	require.Equal(t, 1, list.Total)
	assert.True(t, list.Sessions[0].Current)
}

// ─────────────────────────────────────────────
// PATCH /api/settings/{resource}
// ─────────────────────────────────────────────

// TestPatchSettings_UpdatesDocument verifies the write path end to end: the
// patched value comes back in the response and shows up in the recomputed
// overview on the next read.
func TestPatchSettings_UpdatesDocument(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodPatch, "/api/settings/preferences",
		strings.NewReader(`{"theme": "dark"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var prefs models.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.Equal(t, models.ThemeDark, prefs.Theme)

	rec = doAuthed(t, router, token, http.MethodGet, "/api/settings/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var overview models.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, models.ThemeDark, overview.Theme, "обзор пересчитывается при каждом чтении")
}

// TestPatchSettings_InvalidValue verifies that a patch producing an invalid
// document maps to 422 Unprocessable Entity.
func TestPatchSettings_InvalidValue(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodPatch, "/api/settings/preferences",
		strings.NewReader(`{"theme": "neon"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "theme")
}

// TestPatchSettings_ReadOnlyResource verifies that non-editable resources
// reject patches with 422.
func TestPatchSettings_ReadOnlyResource(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodPatch, "/api/settings/sessions",
		strings.NewReader(`{"total": 0}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrResourceNotEditable.Error())
}

// TestPatchSettings_MalformedPatch verifies that a body that is not valid
// JSON maps to 400 Bad Request.
func TestPatchSettings_MalformedPatch(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodPatch, "/api/settings/preferences",
		strings.NewReader(`{broken`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestPatchSettings_EmptyBody verifies that an empty patch maps to
// 400 Bad Request.
func TestPatchSettings_EmptyBody(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodPatch, "/api/settings/preferences", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty patch body")
}

// ─────────────────────────────────────────────
// POST /api/settings/{resource}/actions/{action}
// ─────────────────────────────────────────────

// TestActions_TerminateOthersSparesCaller verifies that the caller's own
// session survives the bulk terminate.
func TestActions_TerminateOthersSparesCaller(t *testing.T) {
	router := newTestRouter(t)
	bearerToken(t, router) // первая сессия, будет завершена
	token := bearerToken(t, router)

	require.Equal(t, 2, getSessions(t, router, token).Total)

	rec := doAuthed(t, router, token, http.MethodPost,
		"/api/settings/sessions/actions/terminate-others", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.SessionList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.True(t, list.Sessions[0].Current, "выжившая сессия — сессия вызывающего")
}

// TestActions_TerminateRemovesTarget verifies terminating another session by
// its identifier.
func TestActions_TerminateRemovesTarget(t *testing.T) {
	router := newTestRouter(t)
	bearerToken(t, router)
	token := bearerToken(t, router)

	var targetID string
	for _, session := range getSessions(t, router, token).Sessions {
		if !session.Current {
			targetID = session.SessionID
		}
	}
	require.NotEmpty(t, targetID)

	rec := doAuthed(t, router, token, http.MethodPost,
		"/api/settings/sessions/actions/terminate",
		strings.NewReader(fmt.Sprintf(`{"session_id": %q}`, targetID)))
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.SessionList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
}

// TestActions_TerminateCurrentRejected verifies that terminating the
// caller's own session maps to 422.
func TestActions_TerminateCurrentRejected(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	ownID := getSessions(t, router, token).Sessions[0].SessionID

	rec := doAuthed(t, router, token, http.MethodPost,
		"/api/settings/sessions/actions/terminate",
		strings.NewReader(fmt.Sprintf(`{"session_id": %q}`, ownID)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCurrentSession.Error())
}

// TestActions_UnknownAction verifies that actions outside the resource
// descriptor map to 422.
func TestActions_UnknownAction(t *testing.T) {
	router := newTestRouter(t)
	token := bearerToken(t, router)

	rec := doAuthed(t, router, token, http.MethodPost,
		"/api/settings/sessions/actions/purge", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ─────────────────────────────────────────────
// security-events
// ─────────────────────────────────────────────

// TestSecurityEvents_TrackLoginHistory verifies that failed and successful
// logins both land in the audit trail served by the API.
func TestSecurityEvents_TrackLoginHistory(t *testing.T) {
	router := newTestRouter(t)

	rec := doLogin(t, router, testDemoLogin, "wrong-pass")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := bearerToken(t, router)

	rec = doAuthed(t, router, token, http.MethodGet, "/api/settings/security-events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list models.SecurityEventList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))

	kinds := make([]string, 0, len(list.Events))
	for _, event := range list.Events {
		kinds = append(kinds, event.Kind)
	}
	assert.Contains(t, kinds, models.EventLoginFailed)
	assert.Contains(t, kinds, models.EventLogin)
}
