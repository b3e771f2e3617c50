package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-projection-editor/internal/config"
	"github.com/goliatone/go-projection-editor/internal/logging"
	"github.com/goliatone/go-projection-editor/internal/metrics"
	"github.com/goliatone/go-projection-editor/pkg/session"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newClient(t *testing.T, opts ...Option) (*client, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	manager := session.NewManager(session.NewMemoryStore(), variant.Default())
	opts = append([]Option{WithLogger(logging.NewNop()), WithMetrics(m)}, opts...)
	srv, err := New(manager, variant.Default(), opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return &client{t: t, handler: srv.Handler()}, m
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CookieName {
			c.cookie = cookie
		}
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := c.do(req)
	return rec
}

func (c *client) mustPost(path string, form url.Values) {
	c.t.Helper()
	rec := c.post(path, form)
	if rec.Code != http.StatusSeeOther {
		c.t.Fatalf("POST %s: status %d, body %s", path, rec.Code, rec.Body.String())
	}
}

func (c *client) export() string {
	c.t.Helper()
	rec := c.get("/export")
	if rec.Code != http.StatusOK {
		c.t.Fatalf("export: status %d", rec.Code)
	}
	return rec.Body.String()
}

func TestServer_PageIssuesSessionCookie(t *testing.T) {
	c, _ := newClient(t)

	rec := c.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if c.cookie == nil || !session.ValidID(c.cookie.Value) {
		t.Fatalf("expected session cookie, got %+v", c.cookie)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	body := rec.Body.String()
	for _, fragment := range []string{`data-variant="shared"`, "Dynamic #1", `href="/?variant=per-dynamic"`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("page missing %q", fragment)
		}
	}
}

func TestServer_ScalarMultiAndFlag(t *testing.T) {
	c, m := newClient(t)
	c.get("/")

	c.mustPost("/presentation", url.Values{"value": {"COMPLETED"}})
	c.mustPost("/authorities", url.Values{"value": {"ROLE_ADMIN", "ROLE_USER"}})
	c.mustPost("/flags/createExecutionLog", url.Values{"value": {"false", "true"}})

	out := c.export()
	for _, fragment := range []string{`"presentation": "COMPLETED"`, `"createExecutionLog": true`} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("export missing %q:\n%s", fragment, out)
		}
	}
	if !strings.Contains(out, "\"authorities\": [\n    \"ROLE_ADMIN\",\n    \"ROLE_USER\"\n  ]") {
		t.Fatalf("authorities not exported in submitted order:\n%s", out)
	}

	c.mustPost("/flags/createExecutionLog", url.Values{"value": {"false"}})
	if !strings.Contains(c.export(), `"createExecutionLog": false`) {
		t.Fatalf("flag not cleared")
	}

	exposition := httptest.NewRecorder()
	m.Handler().ServeHTTP(exposition, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(exposition.Body.String(), `projection_editor_operations_total{operation="set_flag",variant="shared"} 2`) {
		t.Fatalf("operation counter missing:\n%s", exposition.Body.String())
	}
}

func TestServer_RejectsUnknownOption(t *testing.T) {
	c, _ := newClient(t)
	c.get("/")

	if rec := c.post("/presentation", url.Values{"value": {"Shipped"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if rec := c.post("/nonsense", url.Values{"value": {"x"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestServer_SharedHandlersAndDynamics(t *testing.T) {
	c, _ := newClient(t)
	c.get("/")

	c.mustPost("/handlers/add", url.Values{"scope": {"shared"}, "text": {"  audit  "}})
	c.mustPost("/handlers/add", url.Values{"scope": {"shared"}, "text": {"notify"}})
	c.mustPost("/handlers/remove", url.Values{"scope": {"shared"}, "index": {"0"}})
	c.mustPost("/handlers/remove", url.Values{"scope": {"shared"}, "index": {"9"}})
	c.mustPost("/dynamics/add", nil)
	c.mustPost("/dynamics/1", url.Values{"field": {"name"}, "value": {"Menu"}})

	out := c.export()
	if !strings.Contains(out, "\"actionHandlers\": [\n      \"notify\"\n    ]") {
		t.Fatalf("shared handlers not updated:\n%s", out)
	}
	if !strings.Contains(out, `"name": "Menu"`) {
		t.Fatalf("dynamic field not set:\n%s", out)
	}

	if rec := c.post("/handlers/add", url.Values{"scope": {"0"}, "text": {"x"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("per-dynamic scope on shared variant: status %d, want 400", rec.Code)
	}

	c.mustPost("/dynamics/remove-last", nil)
	c.mustPost("/dynamics/remove-last", nil)
	c.mustPost("/dynamics/remove-last", nil)
	if strings.Contains(c.get("/").Body.String(), "Delete last dynamic") {
		t.Fatalf("remove control should be hidden without dynamics")
	}
}

func TestServer_VariantSwitch(t *testing.T) {
	c, _ := newClient(t)

	rec := c.get("/?variant=per-dynamic")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", rec.Code)
	}
	c.mustPost("/handlers/add", url.Values{"scope": {"0"}, "text": {"open"}})

	page := c.get("/").Body.String()
	if !strings.Contains(page, `data-variant="per-dynamic"`) {
		t.Fatalf("variant not switched")
	}
	if !strings.Contains(c.export(), "\"actionHandlers\": [\n        \"open\"\n      ]") {
		t.Fatalf("per-dynamic handler missing:\n%s", c.export())
	}

	if rec := c.get("/?variant=unknown"); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown variant: status %d", rec.Code)
	}
}

func TestServer_Import(t *testing.T) {
	c, m := newClient(t)
	c.get("/")

	rec := c.post("/import", url.Values{"text": {`{"presentation":`}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unexpected end of JSON input") {
		t.Fatalf("feedback missing from page")
	}
	if !strings.Contains(c.export(), `"presentation": ""`) {
		t.Fatalf("document changed by malformed import")
	}

	c.mustPost("/import", url.Values{"text": {`{"presentation": 7, "extra": [1.50]}`}})
	if out := c.export(); out != "{\n  \"extra\": [\n    1.50\n  ],\n  \"presentation\": 7\n}" {
		t.Fatalf("import not verbatim:\n%s", out)
	}

	exposition := httptest.NewRecorder()
	m.Handler().ServeHTTP(exposition, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(exposition.Body.String(), `projection_editor_import_failures_total{variant="shared"} 1`) {
		t.Fatalf("import failure not counted")
	}
}

func TestServer_ImportedShapeIsNotOverwritten(t *testing.T) {
	c, _ := newClient(t)
	c.get("/")
	c.mustPost("/import", url.Values{"text": {`{"dynamics":[{"name":"keep","view":"","container":"","actionHandlers":[]}]}`}})
	imported := c.export()

	for _, path := range []string{"/dynamics/add", "/handlers/add"} {
		rec := c.post(path, url.Values{"scope": {"shared"}, "text": {"extra"}})
		if rec.Code != http.StatusConflict {
			t.Fatalf("POST %s: status %d, want 409", path, rec.Code)
		}
	}
	if out := c.export(); out != imported {
		t.Fatalf("imported records changed:\n%s", out)
	}
}

func TestServer_SecureCookie(t *testing.T) {
	plain, _ := newClient(t)
	plain.get("/")
	if plain.cookie == nil || plain.cookie.Secure {
		t.Fatalf("expected a non-secure cookie by default, got %+v", plain.cookie)
	}

	secure, _ := newClient(t, WithSecureCookie(true))
	secure.get("/")
	if secure.cookie == nil || !secure.cookie.Secure || !secure.cookie.HttpOnly {
		t.Fatalf("expected a secure http-only cookie, got %+v", secure.cookie)
	}
}

func TestServer_ResetAndSessionsAreIsolated(t *testing.T) {
	first, _ := newClient(t)
	first.get("/")
	first.mustPost("/presentation", url.Values{"value": {"COMPLETED"}})

	other := &client{t: t, handler: first.handler}
	other.get("/")
	if strings.Contains(other.export(), "COMPLETED") {
		t.Fatalf("sessions share state")
	}

	first.mustPost("/reset", nil)
	if strings.Contains(first.export(), "COMPLETED") {
		t.Fatalf("reset kept the edit")
	}
}

func TestServer_AssetsHealthAndMetrics(t *testing.T) {
	c, _ := newClient(t)

	if rec := c.get("/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
	if rec := c.get("/assets/projection-editor.js"); rec.Code != http.StatusOK {
		t.Fatalf("asset status %d", rec.Code)
	}
	c.get("/")
	rec := c.get("/metrics")
	if !strings.Contains(rec.Body.String(), `projection_editor_http_request_duration_seconds_count{method="GET",route="/",status="200"}`) {
		t.Fatalf("request histogram missing")
	}
}

func TestServer_Theme(t *testing.T) {
	cfg, err := ThemeFromConfig(config.Theme{Tokens: map[string]string{"pe-accent": "#ff5500"}})
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	c, _ := newClient(t, WithTheme(cfg))

	if body := c.get("/").Body.String(); !strings.Contains(body, "--pe-accent: #ff5500;") {
		t.Fatalf("theme tokens missing from page")
	}

	none, err := ThemeFromConfig(config.Theme{})
	if err != nil || none != nil {
		t.Fatalf("empty theme config should yield nil, got %v, %v", none, err)
	}
}
