package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview"
	ws "github.com/agentstation/skyview/internal/server/websocket"
)

func testBundle() fstest.MapFS {
	return fstest.MapFS{
		"index.html":           {Data: []byte("<html><head><title>Swagger UI</title></head><body><div id=\"swagger-ui\"></div></body></html>")},
		"swagger-ui.css":       {Data: []byte(".swagger-ui{}")},
		"swagger-ui-bundle.js": {Data: []byte("window.SwaggerUIBundle = function () {};")},
	}
}

func testUI(t *testing.T) *skyview.UI {
	t.Helper()
	ui, err := skyview.New(
		skyview.WithBundle(testBundle()),
		skyview.WithBasePath("/docs"),
		skyview.WithSpecs(skyview.SpecJSON("petstore", []byte(`{"openapi":"3.0.0"}`))),
	)
	if err != nil {
		t.Fatalf("Failed to build UI: %v", err)
	}
	return ui
}

func testHandlers(t *testing.T, hub *ws.Hub) *Handlers {
	t.Helper()
	ui := testUI(t)
	logger := zerolog.Nop()
	return New(func() *skyview.UI { return ui }, hub, &logger)
}

// TestHandleHealth tests the health endpoint payload.
func TestHandleHealth(t *testing.T) {
	h := testHandlers(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp.Data["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", resp.Data["status"])
	}
	if resp.Data["service"] != "skyview" {
		t.Errorf("expected service skyview, got %v", resp.Data["service"])
	}
	if v, ok := resp.Data["version"].(string); !ok || v == "" {
		t.Errorf("expected a version, got %v", resp.Data["version"])
	}
	specs, ok := resp.Data["specs"].([]any)
	if !ok || len(specs) != 1 || specs[0] != "petstore" {
		t.Errorf("expected spec names [petstore], got %v", resp.Data["specs"])
	}
	if _, ok := resp.Data["reload_clients"]; ok {
		t.Error("expected no reload_clients without a hub")
	}
}

// TestHandleHealth_ReloadClients tests the watch mode client gauge.
func TestHandleHealth_ReloadClients(t *testing.T) {
	logger := zerolog.Nop()
	hub := ws.NewHub(&logger)
	h := testHandlers(t, hub)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if clients, ok := resp.Data["reload_clients"].(float64); !ok || int(clients) != 0 {
		t.Errorf("expected 0 reload clients, got %v", resp.Data["reload_clients"])
	}
}

// TestHandleHealth_MethodNotAllowed tests rejection of write methods.
func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	h := testHandlers(t, nil)

	req := httptest.NewRequest("POST", "/healthz", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "METHOD_NOT_ALLOWED") {
		t.Error("expected METHOD_NOT_ALLOWED in response body")
	}
}

// TestHandleMount_Index tests index serving without watch mode.
func TestHandleMount_Index(t *testing.T) {
	h := testHandlers(t, nil)

	req := httptest.NewRequest("GET", "/docs/", nil)
	w := httptest.NewRecorder()
	h.HandleMount(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected HTML content type, got %s", ct)
	}
	if strings.Contains(w.Body.String(), ReloadScriptPath) {
		t.Error("expected no reload script without a hub")
	}
}

// TestHandleMount_InjectsReloadScript tests index rewriting in watch mode.
func TestHandleMount_InjectsReloadScript(t *testing.T) {
	logger := zerolog.Nop()
	h := testHandlers(t, ws.NewHub(&logger))

	req := httptest.NewRequest("GET", "/docs/", nil)
	w := httptest.NewRecorder()
	h.HandleMount(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, ReloadScriptPath) {
		t.Fatal("expected reload script tag in index")
	}
	if strings.Index(body, ReloadScriptPath) > strings.Index(body, "</body>") {
		t.Error("expected script tag before </body>")
	}
	if etag := w.Header().Get("ETag"); etag != "" {
		t.Errorf("expected no ETag on injected index, got %s", etag)
	}
}

// TestHandleMount_AssetsKeepETag tests that assets are untouched by watch mode.
func TestHandleMount_AssetsKeepETag(t *testing.T) {
	logger := zerolog.Nop()
	h := testHandlers(t, ws.NewHub(&logger))

	req := httptest.NewRequest("GET", "/docs/swagger-ui.css", nil)
	w := httptest.NewRecorder()
	h.HandleMount(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag on asset")
	}

	// Conditional revalidation still works
	req = httptest.NewRequest("GET", "/docs/swagger-ui.css", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.HandleMount(w, req)

	if w.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", w.Code)
	}
}

// TestHandleMount_NotFound tests the minimal 404.
func TestHandleMount_NotFound(t *testing.T) {
	h := testHandlers(t, nil)

	req := httptest.NewRequest("GET", "/docs/missing.png", nil)
	w := httptest.NewRecorder()
	h.HandleMount(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

// TestHandleMount_Spec tests spec document serving through the dev server.
func TestHandleMount_Spec(t *testing.T) {
	h := testHandlers(t, nil)

	req := httptest.NewRequest("GET", "/docs/petstore", nil)
	w := httptest.NewRecorder()
	h.HandleMount(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	if w.Body.String() != `{"openapi":"3.0.0"}` {
		t.Errorf("unexpected spec body: %s", w.Body.String())
	}
}

// TestHandleReloadScript tests the reload client endpoint.
func TestHandleReloadScript(t *testing.T) {
	h := testHandlers(t, nil)

	req := httptest.NewRequest("GET", ReloadScriptPath, nil)
	w := httptest.NewRecorder()
	h.HandleReloadScript(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "javascript") {
		t.Errorf("expected javascript content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "WebSocket") {
		t.Error("expected WebSocket client in script body")
	}

	// Write methods are not part of the surface
	req = httptest.NewRequest("POST", ReloadScriptPath, nil)
	w = httptest.NewRecorder()
	h.HandleReloadScript(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for POST, got %d", w.Code)
	}
}

// TestInjectReloadScript tests marker handling directly.
func TestInjectReloadScript(t *testing.T) {
	withMarker := []byte("<html><body>x</body></html>")
	out := string(injectReloadScript(withMarker))
	if !strings.Contains(out, ReloadScriptPath) {
		t.Fatal("expected script tag to be injected")
	}
	if !strings.HasSuffix(out, "</body></html>") {
		t.Errorf("expected tag before </body>, got %s", out)
	}

	withoutMarker := []byte("<html>x</html>")
	out = string(injectReloadScript(withoutMarker))
	if !strings.HasSuffix(out, string(reloadScriptTag)) {
		t.Errorf("expected tag appended, got %s", out)
	}
}
