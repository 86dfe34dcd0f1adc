// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gbs/internal/config"
	"gbs/internal/editor"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authHeader = "Basic QUlEOlNFQ1JFVA=="

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type route struct {
	status      int
	contentType string
	body        string
}

type request struct {
	method string
	path   string
	query  map[string][]string
	header http.Header
	body   []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	routes   map[string]route
	requests []request
	server   *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: map[string]route{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.requests = append(f.requests, request{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			header: r.Header.Clone(),
			body:   body,
		})
		rt, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"title": "Not Found"}`))
			return
		}
		if rt.contentType != "" {
			w.Header().Set("Content-Type", rt.contentType)
		}
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = route{status: status, contentType: "application/json", body: body}
}

func (f *fakeAPI) onCSV(method, path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = route{status: http.StatusOK, contentType: "text/csv", body: body}
}

func (f *fakeAPI) calls() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.requests...)
}

type fakeEditor struct {
	calls    int
	received []byte
	edit     func(content []byte) ([]byte, bool, error)
}

func (e *fakeEditor) Edit(_ context.Context, content []byte) ([]byte, bool, error) {
	e.calls++
	e.received = content
	return e.edit(content)
}

type harness struct {
	api           *fakeAPI
	app           *App
	stdout        bytes.Buffer
	stderr        bytes.Buffer
	editor        *fakeEditor
	editorCommand string
	credPath      string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "test-editor")

	h := &harness{
		api: newFakeAPI(t),
		editor: &fakeEditor{edit: func([]byte) ([]byte, bool, error) {
			return nil, false, nil
		}},
		credPath: filepath.Join(t.TempDir(), "credential.json"),
	}
	require.NoError(t, os.WriteFile(h.credPath, []byte(`{"account_id": "AID", "secret": "SECRET"}`), 0600))

	h.app = &App{
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		NewEditor: func(command string) editor.Editor {
			h.editorCommand = command
			return h.editor
		},
		Width:          80,
		DisableLogFile: true,
	}
	return h
}

// run executes gbs against the fake API with the test credential.
func (h *harness) run(args ...string) int {
	args = append(args, "--url", h.api.server.URL, "--cred", h.credPath)
	return execute(context.Background(), args, h.app)
}

func TestAccountCreate(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodPost, "/accounts", http.StatusOK, `{"A": 0}`)

	code := h.run("account", "create", "alan@mail.com", "Alan")

	assert.Equal(t, 0, code)
	calls := h.api.calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email": "alan@mail.com", "name": "Alan"}`, string(calls[0].body))
	assert.Empty(t, calls[0].header.Get("Authorization"))
	assert.Equal(t, "{\n    \"A\": 0\n}\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestAccountCreateDoesNotNeedCredential(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodPost, "/accounts", http.StatusOK, `{}`)
	h.credPath = filepath.Join(t.TempDir(), "missing.json")

	assert.Equal(t, 0, h.run("account", "create", "alan@mail.com", "Alan"))
}

func TestAccountCredential(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodPost, "/accounts/service_credential_request", http.StatusOK, "")

	code := h.run("account", "credential", "alan@mail.com")

	assert.Equal(t, 0, code)
	calls := h.api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"alan@mail.com"}, calls[0].query["email"])
	assert.Equal(t, "{}\n", h.stdout.String())
}

func TestAuthenticatedJSONCommands(t *testing.T) {
	cases := []struct {
		args   []string
		method string
		path   string
	}{
		{[]string{"account", "describe"}, http.MethodGet, "/accounts/AID"},
		{[]string{"service", "list"}, http.MethodGet, "/services"},
		{[]string{"service", "describe", "s0"}, http.MethodGet, "/services/s0"},
		{[]string{"service", "delete", "s0"}, http.MethodDelete, "/services/s0"},
	}

	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			h := newHarness(t)
			h.api.on(tc.method, tc.path, http.StatusOK, `{"A":0}`)

			code := h.run(tc.args...)

			assert.Equal(t, 0, code)
			calls := h.api.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tc.method, calls[0].method)
			assert.Equal(t, authHeader, calls[0].header.Get("Authorization"))
			assert.Equal(t, "{\n    \"A\": 0\n}\n", h.stdout.String())
		})
	}
}

func TestStatsCommands(t *testing.T) {
	cases := map[string]string{
		"arms": "/stats/arms",
		"seg":  "/stats/segs",
		"goal": "/stats/goals",
	}

	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.api.onCSV(http.MethodGet, path, `{}`)

			code := h.run("stats", name, "s", "e")

			assert.Equal(t, 0, code)
			calls := h.api.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "text/csv", calls[0].header.Get("Accept"))
			assert.Equal(t, authHeader, calls[0].header.Get("Authorization"))
			assert.Equal(t, []string{"s"}, calls[0].query["svc_id"])
			assert.Equal(t, []string{"e"}, calls[0].query["exp_id"])
			assert.Equal(t, "{}\n", h.stdout.String())
		})
	}
}

func TestStatsCSVIsVerbatim(t *testing.T) {
	h := newHarness(t)
	csv := "arm_id,trials,rewards\na,10,3\nb,12,5\n"
	h.api.onCSV(http.MethodGet, "/stats/arms", csv)

	assert.Equal(t, 0, h.run("stats", "arms", "svc&1", "exp=2"))
	assert.Equal(t, csv, h.stdout.String())

	calls := h.api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"svc&1"}, calls[0].query["svc_id"])
	assert.Equal(t, []string{"exp=2"}, calls[0].query["exp_id"])
}

func TestMissingCredential(t *testing.T) {
	h := newHarness(t)
	h.credPath = filepath.Join(t.TempDir(), "nope.json")
	h.app.Width = 1000

	code := h.run("service", "list")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.api.calls())
	out := h.stdout.String()
	assert.True(t, strings.HasPrefix(out, "[Error] Credential not found: "+h.credPath+"\n"), out)
	assert.Contains(t, out, "--cred")
}

func TestRemoteErrorBanner(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodGet, "/services/s0", http.StatusForbidden, `{"title": "Forbidden", "detail": "The credential cannot access this service."}`)

	code := h.run("service", "describe", "s0")

	assert.Equal(t, 1, code)
	assert.Equal(t, "[Error] Forbidden\nThe credential cannot access this service.\n", h.stdout.String())
}

func TestRemoteErrorWithoutDetail(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodDelete, "/services/s0", http.StatusConflict, `{"title":"Conflict","reason":"running"}`)

	code := h.run("service", "delete", "s0")

	assert.Equal(t, 1, code)
	assert.Equal(t, "[Error] Conflict\n{\n    \"title\": \"Conflict\",\n    \"reason\": \"running\"\n}\n", h.stdout.String())
}

func TestTransportError(t *testing.T) {
	h := newHarness(t)
	h.api.server.Close()

	code := h.run("service", "list")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Error: request failed: GET "+h.api.server.URL+"/services")
}

func TestUsageError(t *testing.T) {
	h := newHarness(t)

	code := h.run("service", "describe")

	assert.Equal(t, 1, code)
	assert.Empty(t, h.api.calls())
	assert.Contains(t, h.stderr.String(), "accepts 1 arg(s)")
}

func TestServiceEditNotFoundSeedsEmptyConfig(t *testing.T) {
	h := newHarness(t)

	code := h.run("service", "edit", "s0")

	assert.Equal(t, 0, code)
	assert.Equal(t, 1, h.editor.calls)
	assert.JSONEq(t, `{"experiments": [], "goals": []}`, string(h.editor.received))
	assert.Equal(t, "Configuration not saved.\n", h.stdout.String())

	calls := h.api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].method)
}

func TestServiceEditRoundTripsUnchangedContent(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodGet, "/services/s0", http.StatusOK,
		`{"account_id":"AID","svc_id":"s0","update_dt":"2019-04-01T00:00:00","experiments":[{"exp_id":"e1","arms":["a","b"]}],"goals":[{"goal_id":"g1"}]}`)
	h.api.on(http.MethodPut, "/services/s0", http.StatusOK, `{"svc_id":"s0"}`)
	h.editor.edit = func(content []byte) ([]byte, bool, error) {
		return content, true, nil
	}

	code := h.run("service", "edit", "s0")

	assert.Equal(t, 0, code)
	assert.NotContains(t, string(h.editor.received), "account_id")
	assert.NotContains(t, string(h.editor.received), "update_dt")
	assert.Contains(t, string(h.editor.received), "\n    \"experiments\": [")

	calls := h.api.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[1].method)
	assert.Equal(t, authHeader, calls[1].header.Get("Authorization"))
	assert.Equal(t, `{"experiments":[{"exp_id":"e1","arms":["a","b"]}],"goals":[{"goal_id":"g1"}]}`, string(calls[1].body))
	assert.Equal(t, "{\n    \"svc_id\": \"s0\"\n}\n", h.stdout.String())
}

func TestServiceEditInvalidJSON(t *testing.T) {
	h := newHarness(t)
	h.editor.edit = func([]byte) ([]byte, bool, error) {
		return []byte(`{"experiments": [`), true, nil
	}

	code := h.run("service", "edit", "s0")

	assert.Equal(t, 1, code)
	assert.Len(t, h.api.calls(), 1)
	assert.True(t, strings.HasPrefix(h.stdout.String(), "[Error] Invalid JSON\n"), h.stdout.String())
}

func TestServiceEditGetFailureStops(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodGet, "/services/s0", http.StatusInternalServerError, `{"title": "Internal Server Error", "detail": "try later"}`)

	code := h.run("service", "edit", "s0")

	assert.Equal(t, 1, code)
	assert.Equal(t, 0, h.editor.calls)
	assert.Equal(t, "[Error] Internal Server Error\ntry later\n", h.stdout.String())
}

func TestServiceEditEditorFailure(t *testing.T) {
	h := newHarness(t)
	h.editor.edit = func([]byte) ([]byte, bool, error) {
		return nil, false, errors.New("exit status 2")
	}

	code := h.run("service", "edit", "s0")

	assert.Equal(t, 1, code)
	assert.Len(t, h.api.calls(), 1)
	assert.Contains(t, h.stdout.String(), "[Error] Editor failed")
}

func TestServiceEditUsesConfiguredEditor(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, config.SaveConfig(config.Settings{Editor: "code --wait"}))

	h.run("service", "edit", "s0")
	assert.Equal(t, "code --wait", h.editorCommand)
}

func TestServiceEditFallsBackToEnvironmentEditor(t *testing.T) {
	h := newHarness(t)

	h.run("service", "edit", "s0")
	assert.Equal(t, "test-editor", h.editorCommand)
}

func TestSettingsURLIsUsedWithoutFlag(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodGet, "/services", http.StatusOK, `[]`)
	require.NoError(t, config.SaveConfig(config.Settings{URL: h.api.server.URL, Credential: h.credPath}))

	code := execute(context.Background(), []string{"service", "list"}, h.app)

	assert.Equal(t, 0, code)
	assert.Len(t, h.api.calls(), 1)
	assert.Equal(t, "[]\n", h.stdout.String())
}

func TestConfigSetAndShow(t *testing.T) {
	h := newHarness(t)

	code := execute(context.Background(), []string{"config", "set-url", "http://localhost:9000/"}, h.app)
	require.Equal(t, 0, code)
	assert.Contains(t, h.stdout.String(), "Setting 'url' set to: http://localhost:9000")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.URL)

	h.stdout.Reset()
	code = execute(context.Background(), []string{"config", "show"}, h.app)
	require.Equal(t, 0, code)
	assert.Contains(t, h.stdout.String(), "http://localhost:9000")
	assert.Contains(t, h.stdout.String(), "settings file")
	assert.Contains(t, h.stdout.String(), "environment")
}

func TestConfigSetRejectsInvalidValues(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, execute(context.Background(), []string{"config", "set-url", "ftp://x"}, h.app))
	assert.Equal(t, 1, execute(context.Background(), []string{"config", "set-cred", "relative.json"}, h.app))
	assert.Contains(t, h.stderr.String(), "path must be absolute")
}

func TestConfigPath(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, execute(context.Background(), []string{"config", "path"}, h.app))
	assert.Contains(t, h.stdout.String(), filepath.Join(".config", "gbs", "config.yaml"))
	assert.Contains(t, h.stdout.String(), filepath.Join(".config", "gbs", "credential.json"))
	assert.Contains(t, h.stdout.String(), filepath.Join("gbs", "gbs.log"))
}

func TestServiceIDCompletion(t *testing.T) {
	h := newHarness(t)
	h.api.on(http.MethodGet, "/services", http.StatusOK, `[{"svc_id":"shop"},{"svc_id":"blog"},{"svc_id":"store"}]`)

	code := execute(context.Background(), []string{"__complete", "service", "describe", "--url", h.api.server.URL, "--cred", h.credPath, "s"}, h.app)

	assert.Equal(t, 0, code)
	out := h.stdout.String()
	assert.Contains(t, out, "shop\n")
	assert.Contains(t, out, "store\n")
	assert.NotContains(t, out, "blog")
}
