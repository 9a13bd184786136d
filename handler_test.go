package skyview

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func newTestUI(t *testing.T, opts ...Option) *UI {
	t.Helper()
	ui, err := New(append([]Option{WithBundle(minimalBundle())}, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create mount: %v", err)
	}
	return ui
}

func TestHandlerServesIndex(t *testing.T) {
	handler := newTestUI(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/swagger-ui/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Expected HTML, got %q", ct)
	}
	if rec.Header().Get("Cache-Control") != "no-cache" {
		t.Errorf("Expected the index to revalidate, got %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Body.Len() == 0 {
		t.Error("Expected an index body")
	}
}

// TestHandlerAssetCaching verifies the ETag round trip: first response
// carries the tag, a conditional re-request gets 304 with no body.
func TestHandlerAssetCaching(t *testing.T) {
	handler := newTestUI(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/swagger-ui/swagger-ui.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Expected a cacheable asset, got %q", got)
	}
	tag := rec.Header().Get("ETag")
	if tag == "" || !strings.HasPrefix(tag, `"`) {
		t.Fatalf("Expected a quoted ETag, got %q", tag)
	}

	for _, match := range []string{tag, "W/" + tag, `"stale", ` + tag, "*"} {
		req := httptest.NewRequest("GET", "/swagger-ui/swagger-ui.css", nil)
		req.Header.Set("If-None-Match", match)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotModified {
			t.Errorf("Expected 304 for If-None-Match %q, got %d", match, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("Expected an empty 304 body for %q", match)
		}
	}

	req := httptest.NewRequest("GET", "/swagger-ui/swagger-ui.css", nil)
	req.Header.Set("If-None-Match", `"different"`)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected a mismatched tag to serve the asset, got %d", rec.Code)
	}
}

func TestHandlerETagStableAcrossMounts(t *testing.T) {
	first := newTestUI(t).Handler()
	second := newTestUI(t).Handler()

	tag := func(h http.Handler) string {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/swagger-ui/swagger-ui.css", nil))
		return rec.Header().Get("ETag")
	}
	if tag(first) != tag(second) {
		t.Error("Expected the same bytes to carry the same ETag everywhere")
	}
}

func TestHandlerHead(t *testing.T) {
	handler := newTestUI(t).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("HEAD", "/swagger-ui/swagger-ui.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("Expected no body on HEAD")
	}
	length, err := strconv.Atoi(rec.Header().Get("Content-Length"))
	if err != nil || length == 0 {
		t.Errorf("Expected the real content length, got %q", rec.Header().Get("Content-Length"))
	}
}

func TestHandlerNotFound(t *testing.T) {
	handler := newTestUI(t).Handler()

	for _, tc := range []struct {
		method, path string
	}{
		{"GET", "/swagger-ui/missing.js"},
		{"GET", "/elsewhere"},
		{"POST", "/swagger-ui/"},
		{"DELETE", "/swagger-ui/index.html"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for %s %s, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestHandlerRedirectFallback(t *testing.T) {
	handler := newTestUI(t, WithRedirectFallback(true)).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/swagger-ui/deep/link", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/swagger-ui/" {
		t.Errorf("Expected redirect to the index, got %q", loc)
	}
}

// TestHandlerDocsScenario drives the whole mount over HTTP: config, spec
// and initializer all consistent for a /docs base path.
func TestHandlerDocsScenario(t *testing.T) {
	ui := newTestUI(t,
		WithBasePath("/docs"),
		WithSpecs(SpecJSON("v1", []byte(`{"openapi":"3.1.0"}`))),
		WithUIOption("docExpansion", "list"),
	)
	server := httptest.NewServer(ui.Handler())
	defer server.Close()

	get := func(path string) (*http.Response, string) {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("Failed to GET %s: %v", path, err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", path, err)
		}
		return resp, string(body)
	}

	resp, body := get("/docs/swagger-ui-config.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from the config endpoint, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"url":"/docs/v1"`) || !strings.Contains(body, `"docExpansion":"list"`) {
		t.Errorf("Unexpected config body: %s", body)
	}

	resp, body = get("/docs/v1")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("Expected the spec as JSON, got %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if body != `{"openapi":"3.1.0"}` {
		t.Errorf("Unexpected spec body: %s", body)
	}

	if resp, _ := get("/docs"); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected the bare base path to serve, got %d", resp.StatusCode)
	}
}
