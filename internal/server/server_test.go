package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/config"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/fieldmap"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/rendering"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/ratelimit"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/ws"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

func testSessionConfig() *config.SessionConfig {
	return &config.SessionConfig{
		Secret:          "test-secret",
		ExpirationHours: 1,
		IdleTimeout:     time.Hour,
		SweepSpec:       "@every 1m",
	}
}

func newTestServer(t *testing.T, limiter *ratelimit.Limiter) *Server {
	t.Helper()
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	t.Cleanup(limiter.Stop)

	manager := session.NewManager(session.Options{Notifiers: hub.Notifier})
	s := newServer(manager, hub, NewTokenService(testSessionConfig()), rendering.NewGenerator(fieldmap.Answers{}), limiter)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, s *Server) SessionResponse {
	t.Helper()
	w := do(t, s, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "ok", resp["status"])
	assert.NotContains(t, resp, "database", "no database configured")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodOptions, "/profile", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestPlatformsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s, http.MethodGet, "/platforms", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	platforms := decode[[]PlatformInfo](t, w)
	require.Len(t, platforms, 7)
	assert.Equal(t, PlatformInfo{Name: "Lever", Icon: "🎯", Supported: true}, platforms[0])
	assert.False(t, platforms[4].Supported, "LinkedIn")
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodPost, "/analyze", "", URLRequest{URL: "https://company.wd5.myworkdayjobs.com/en-US/External"})
	require.Equal(t, http.StatusOK, w.Code)
	posting := decode[types.JobPosting](t, w)
	assert.Equal(t, "Workday", posting.Platform)
	assert.True(t, posting.Supported)
	assert.True(t, posting.RequiresLogin)
	assert.True(t, posting.MultiPage)
	assert.NotEmpty(t, posting.Notes)

	w = do(t, s, http.MethodPost, "/analyze", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "url")

	w = do(t, s, http.MethodPost, "/analyze", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/profile"},
		{http.MethodPost, "/script"},
		{http.MethodGet, "/applications"},
		{http.MethodDelete, "/session"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := do(t, s, route.method, route.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = do(t, s, route.method, route.path, "forged.token.value", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	w := do(t, s, http.MethodGet, "/profile", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, []any{"firstName", "lastName", "email"}, resp["missingRequired"])

	w = do(t, s, http.MethodPut, "/profile", sess.Token, map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[map[string]any](t, w)
	assert.Empty(t, resp["missingRequired"])
	assert.Equal(t, "Ada", resp["profile"].(map[string]any)["firstName"])

	w = do(t, s, http.MethodPost, "/profile/reset", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[map[string]any](t, w)
	assert.Equal(t, "", resp["profile"].(map[string]any)["firstName"])
}

func TestUpdateProfile_RejectsAtomically(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/profile", sess.Token, map[string]string{"phone": "555-0100"}).Code)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"unknown key", map[string]string{"phone": "555-9999", "nickname": "x"}},
		{"invalid email", map[string]string{"phone": "555-9999", "email": "not-an-email"}},
		{"invalid enum", map[string]string{"phone": "555-9999", "sponsorship": "Maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPut, "/profile", sess.Token, tt.fields)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			w = do(t, s, http.MethodGet, "/profile", sess.Token, nil)
			resp := decode[map[string]any](t, w)
			assert.Equal(t, "555-0100", resp["profile"].(map[string]any)["phone"])
		})
	}
}

func TestProfileExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	w := do(t, s, http.MethodPost, "/profile/import", sess.Token, `{"firstName":"Grace","email":"grace@example.com","github":"ghopper"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/profile/export", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "profile.json")
	exported := w.Body.Bytes()
	assert.Contains(t, string(exported), `"github": "ghopper"`)

	other := createSession(t, s)
	w = do(t, s, http.MethodPost, "/profile/import", other.Token, exported)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/profile/export", other.Token, nil)
	assert.JSONEq(t, string(exported), w.Body.String())
}

func TestProfileImport_Malformed(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/profile", sess.Token, map[string]string{"firstName": "Ada"}).Code)

	for _, body := range []string{`{"firstName":`, `[]`, `{"firstName": 42}`, `{"workAuthorization":"Sometimes"}`} {
		t.Run(body, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/profile/import", sess.Token, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := do(t, s, http.MethodGet, "/profile", sess.Token, nil)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "Ada", resp["profile"].(map[string]any)["firstName"])
}

func TestGenerateScript(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/profile", sess.Token, map[string]string{
		"email": "ada@example.com",
		"phone": "555-0100",
	}).Code)

	w := do(t, s, http.MethodPost, "/script", sess.Token, URLRequest{URL: "https://www.glassdoor.com/job-listing/123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ScriptResponse](t, w)

	assert.True(t, resp.Supported)
	assert.Equal(t, "Glassdoor", resp.Posting.Platform)
	assert.Contains(t, resp.Script, "ada@example.com")
	assert.Contains(t, resp.Script, "555-0100")
	assert.Equal(t, []string{"firstName", "lastName"}, resp.MissingRequired)
}

func TestGenerateScript_Unsupported(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	for _, url := range []string{"https://www.linkedin.com/jobs/view/1", "https://example.com/careers"} {
		t.Run(url, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/script", sess.Token, URLRequest{URL: url})
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[ScriptResponse](t, w)
			assert.False(t, resp.Supported)
			assert.Equal(t, rendering.UnsupportedScript, resp.Script)
		})
	}
}

func TestApplicationsFlow(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	w := do(t, s, http.MethodPost, "/applications", sess.Token, AddApplicationRequest{URL: "https://jobs.lever.co/acme-corp/abcd-1234"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[ApplicationResponse](t, w)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, types.ApplicationRecord{
		URL:      "https://jobs.lever.co/acme-corp/abcd-1234",
		Company:  "Jobs",
		Platform: "Lever",
		Date:     "2024-03-01 09:30",
		Status:   types.StatusApplied,
	}, first.Record)

	w = do(t, s, http.MethodPost, "/applications", sess.Token, AddApplicationRequest{URL: "https://boards.greenhouse.io/x/jobs/1", Company: "Initech"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, http.MethodPatch, "/applications/0/status", sess.Token, UpdateStatusRequest{Status: "interview"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, types.StatusInterview, decode[ApplicationResponse](t, w).Record.Status)

	w = do(t, s, http.MethodGet, "/applications/summary", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[tracker.Summary](t, w)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.ByStatus[types.StatusInterview])
	assert.Equal(t, 1, summary.ByStatus[types.StatusApplied])
	assert.Equal(t, map[string]int{"Lever": 1, "Greenhouse": 1}, summary.ByPlatform)

	// Display index 0 is the newest record (storage index 1).
	w = do(t, s, http.MethodPatch, "/applications/0/status?display=true", sess.Token, UpdateStatusRequest{Status: "Offer"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[ApplicationResponse](t, w)
	assert.Equal(t, 1, updated.Index)
	assert.Equal(t, "Initech", updated.Record.Company)

	w = do(t, s, http.MethodGet, "/applications?status=offer", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ApplicationListResponse](t, w)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Applications, 1)
	assert.Equal(t, "Initech", list.Applications[0].Record.Company)

	w = do(t, s, http.MethodGet, "/applications?platform=lever", sess.Token, nil)
	list = decode[ApplicationListResponse](t, w)
	require.Len(t, list.Applications, 1)
	assert.Equal(t, 0, list.Applications[0].Index)
}

func TestAddApplication_IgnoresRequestedStatus(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	w := do(t, s, http.MethodPost, "/applications", sess.Token, `{"url":"https://jobs.lever.co/acme/1","status":"Interview"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, types.StatusApplied, decode[ApplicationResponse](t, w).Record.Status)

	w = do(t, s, http.MethodGet, "/applications/summary", sess.Token, nil)
	summary := decode[tracker.Summary](t, w)
	assert.Equal(t, 1, summary.ByStatus[types.StatusApplied])
	assert.Equal(t, 0, summary.ByStatus[types.StatusInterview])
}

func TestApplications_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/applications", sess.Token, AddApplicationRequest{URL: "https://x.test/1"}).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"missing url", http.MethodPost, "/applications", `{}`, http.StatusBadRequest},
		{"index out of range", http.MethodPatch, "/applications/5/status", UpdateStatusRequest{Status: "Offer"}, http.StatusNotFound},
		{"negative index", http.MethodPatch, "/applications/-1/status", UpdateStatusRequest{Status: "Offer"}, http.StatusNotFound},
		{"display out of range", http.MethodPatch, "/applications/3/status?display=true", UpdateStatusRequest{Status: "Offer"}, http.StatusNotFound},
		{"non-numeric index", http.MethodPatch, "/applications/abc/status", UpdateStatusRequest{Status: "Offer"}, http.StatusBadRequest},
		{"invalid status", http.MethodPatch, "/applications/0/status", UpdateStatusRequest{Status: "Ghosted"}, http.StatusBadRequest},
		{"bad list filter", http.MethodGet, "/applications?status=nope", nil, http.StatusBadRequest},
		{"malformed import", http.MethodPost, "/applications/import", `{"not":"an array"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, sess.Token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := do(t, s, http.MethodGet, "/applications", sess.Token, nil)
	assert.Equal(t, 1, decode[ApplicationListResponse](t, w).Total, "failed requests leave the history untouched")
}

func TestApplicationsExportImportClear(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)
	for _, url := range []string{"https://jobs.lever.co/a/1", "https://jobs.lever.co/b/2"} {
		require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/applications", sess.Token, AddApplicationRequest{URL: url}).Code)
	}

	w := do(t, s, http.MethodGet, "/applications/export", sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "applications.json")
	exported := w.Body.Bytes()

	w = do(t, s, http.MethodDelete, "/applications", sess.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, s, http.MethodGet, "/applications/summary", sess.Token, nil)
	assert.Equal(t, 0, decode[tracker.Summary](t, w).Total)

	w = do(t, s, http.MethodPost, "/applications/import", sess.Token, exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decode[tracker.Summary](t, w).Total)

	w = do(t, s, http.MethodGet, "/applications/export", sess.Token, nil)
	assert.JSONEq(t, string(exported), w.Body.String())
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, nil)
	a := createSession(t, s)
	b := createSession(t, s)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPut, "/profile", a.Token, map[string]string{"firstName": "Ada"}).Code)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/applications", a.Token, AddApplicationRequest{URL: "https://jobs.lever.co/a/1"}).Code)

	w := do(t, s, http.MethodGet, "/profile", b.Token, nil)
	assert.Equal(t, "", decode[map[string]any](t, w)["profile"].(map[string]any)["firstName"])
	w = do(t, s, http.MethodGet, "/applications", b.Token, nil)
	assert.Equal(t, 0, decode[ApplicationListResponse](t, w).Total)
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer(t, nil)
	sess := createSession(t, s)

	require.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/session", sess.Token, nil).Code)

	// The token is still well-formed, but its session is gone.
	w := do(t, s, http.MethodGet, "/profile", sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitedResponse(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	s := newTestServer(t, limiter)

	w := do(t, s, http.MethodGet, "/platforms", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, s, http.MethodGet, "/platforms", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "", nil).Code)
}

func TestSessionEventsWebsocket(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	sess := createSession(t, s)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/session/events?token=" + sess.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return s.hub.ClientCount(sess.SessionID) == 1 }, 2*time.Second, 10*time.Millisecond)

	w := do(t, s, http.MethodPost, "/applications", sess.Token, AddApplicationRequest{URL: "https://jobs.lever.co/acme/1"})
	require.Equal(t, http.StatusCreated, w.Code)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, tracker.EventApplicationAdded, event["type"])
	assert.Equal(t, sess.SessionID.String(), event["sessionId"])
	assert.EqualValues(t, 1, event["summary"].(map[string]any)["total"])
}

func TestSessionEventsWebsocket_RequiresToken(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/session/events", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
