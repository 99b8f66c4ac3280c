package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/councilcms/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdmin    = "council@university.edu"
	testPassword = "correct horse"
)

type testApp struct {
	router    *gin.Engine
	legacyDir string
	token     string
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	app := &testApp{legacyDir: t.TempDir()}

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.File.Dir = t.TempDir()
	cfg.Legacy.Source = config.BackendFile
	cfg.Legacy.File.Dir = app.legacyDir
	cfg.Admin.Emails = []string{testAdmin}
	cfg.Admin.PasswordHash = string(hash)
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.SessionExpiration = "1h"
	cfg.JWT.Issuer = "councilcms"
	cfg.JWT.CookieName = "cms_session"
	for _, opt := range opts {
		opt(cfg)
	}

	deps, err := BuildDependencies(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	app.router = SetupRouter(cfg, deps, zerolog.Nop())
	return app
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": testAdmin, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token.AccessToken)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "cms_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	a.token = resp.Token.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateHackathonAndReadPublicly(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/hackathons", map[string]any{
		"title":       "Hack Day",
		"description": "24h build sprint",
		"startDate":   "2025-02-01",
		"status":      "upcoming",
		"prizes":      []map[string]string{{"position": "1st", "reward": "Laptop"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "hack-day", created["id"])
	assert.NotEmpty(t, created["createdAt"])

	app.token = ""
	w = app.do(t, http.MethodGet, "/api/hackathons/hack-day", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode(t, w)
	assert.Equal(t, "Hack Day", view["title"])
	assert.Equal(t, "upcoming", view["status"])

	w = app.do(t, http.MethodGet, "/api/hackathons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "hack-day", list[0]["id"])
}

func TestCreateEventAndListPublicly(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/events", map[string]any{
		"title":       "Hack Day",
		"description": "24h build sprint",
		"date":        "2025-02-01",
		"category":    "hackathon",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "hack-day", created["id"])
	assert.Equal(t, []any{}, created["gallery"])

	w = app.do(t, http.MethodPut, "/api/admin/events/hack-day", map[string]any{"venue": "Lab 3"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []any{}, decode(t, w)["gallery"])

	app.token = ""
	w = app.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	ids := make([]any, 0, len(list))
	for _, e := range list {
		ids = append(ids, e["id"])
	}
	assert.Contains(t, ids, "hack-day")
}

func TestMigrateReportsUndecodableRecords(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(app.legacyDir, "achievements.json"), []byte(`{
  "a": {"title": "Gold", "year": "2021", "type": "robotics"},
  "c": {"title": "Bronze", "year": 2021, "type": "aero"}
}`), 0o644))
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/achievements/migrate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)["report"].(map[string]any)
	assert.EqualValues(t, 1, report["inserted"])
	errs := report["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "c", errs[0].(map[string]any)["id"])
}

func TestMigrateClubsOverSeededDefaults(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(app.legacyDir, "clubs.json"), []byte(`{
  "programming-club": {"name": "Programming Club", "description": "legacy description", "type": "technical"}
}`), 0o644))
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/clubs/migrate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode(t, w)["report"].(map[string]any)
	assert.EqualValues(t, 1, report["inserted"])
	assert.EqualValues(t, 0, report["skipped"])
	assert.EqualValues(t, 1, report["total"])

	w = app.do(t, http.MethodGet, "/api/clubs/programming-club", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "legacy description", decode(t, w)["description"])
}

func TestAdminRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/events"},
		{http.MethodPost, "/api/admin/events"},
		{http.MethodPut, "/api/admin/events/x"},
		{http.MethodDelete, "/api/admin/events/x"},
		{http.MethodPost, "/api/admin/events/migrate"},
	} {
		w := app.do(t, tc.method, tc.path, "{}")
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "Unauthorized", decode(t, w)["error"])
	}

	app.token = "not-a-jwt"
	w := app.do(t, http.MethodGet, "/api/admin/events", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": testAdmin, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionEndpoint(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	app.login(t)
	w = app.do(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, testAdmin, body["email"])
}

func TestCreateValidationDetails(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/events", map[string]any{
		"description": "missing title",
		"date":        "01/02/2025",
		"category":    "talk",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	body := decode(t, w)
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, w.Body.String())
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "date")
}

func TestMissingRecordIsNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/hackathons/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Hackathon not found", decode(t, w)["error"])

	app.login(t)
	w = app.do(t, http.MethodDelete, "/api/admin/hackathons/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMergesAndDetectsConflicts(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/events", map[string]any{
		"title":       "Robo Wars",
		"description": "Arena battles",
		"date":        "2024-09-01",
		"category":    "competition",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	seen := created["updatedAt"].(string)

	w = app.do(t, http.MethodPut, "/api/admin/events/"+id, map[string]any{
		"venue":             "Main Ground",
		"expectedUpdatedAt": seen,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "Main Ground", updated["venue"])
	assert.Equal(t, "Robo Wars", updated["title"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])

	w = app.do(t, http.MethodPut, "/api/admin/events/"+id, map[string]any{
		"venue":             "Hall 2",
		"expectedUpdatedAt": seen,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = app.do(t, http.MethodPut, "/api/admin/events/"+id, map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = app.do(t, http.MethodPut, "/api/admin/events/"+id, "[1,2]")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodDelete, "/api/admin/events/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Event deleted", decode(t, w)["message"])
}

func TestMigrateEndpoint(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(app.legacyDir, "hackathons.json"), []byte(`{
  "hack-day-2023": {"name": "Hack Day 2023", "description": "Spring edition", "startDate": "2023-03-01", "status": "Completed", "prizes": {"2nd": "Books", "1st": "Laptop"}}
}`), 0o644))
	app.login(t)

	w := app.do(t, http.MethodPost, "/api/admin/hackathons/migrate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["migrated"])
	report := body["report"].(map[string]any)
	assert.EqualValues(t, 1, report["inserted"])

	w = app.do(t, http.MethodPost, "/api/admin/hackathons/migrate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["migrated"])

	w = app.do(t, http.MethodPost, "/api/admin/hackathons/migrate?mode=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/hackathons/hack-day-2023", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode(t, w)["status"])
}

func TestHealthReportsBackends(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	backends := body["backends"].(map[string]any)
	assert.Equal(t, "file", backends["events"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Path = "/metrics"
	})

	w := app.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "store_ops_total"), "store metrics missing")
	assert.True(t, strings.Contains(body, "http_requests_total"), "http metrics missing")
}
