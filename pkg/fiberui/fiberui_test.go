package fiberui_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gofiber/fiber/v2"

	"github.com/agentstation/skyview"
	"github.com/agentstation/skyview/pkg/fiberui"
)

func newApp(t *testing.T, opts ...skyview.Option) *fiber.App {
	t.Helper()
	bundle := fstest.MapFS{
		"index.html":     &fstest.MapFile{Data: []byte("<html><title>Swagger UI</title></html>")},
		"swagger-ui.css": &fstest.MapFile{Data: []byte(".swagger-ui{}")},
	}
	ui, err := skyview.New(append([]skyview.Option{skyview.WithBundle(bundle)}, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create mount: %v", err)
	}
	app := fiber.New()
	fiberui.Register(app, ui)
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, header ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to run %s %s: %v", method, path, err)
	}
	return resp
}

func TestRegisterServesMount(t *testing.T) {
	app := newApp(t,
		skyview.WithBasePath("/docs"),
		skyview.WithSpecs(skyview.SpecYAML("v1", []byte("openapi: 3.1.0\n"))),
	)

	cases := []struct {
		path        string
		contentType string
	}{
		{"/docs", "text/html"},
		{"/docs/", "text/html"},
		{"/docs/swagger-ui.css", "text/css"},
		{"/docs/v1", "application/yaml"},
		{"/docs/v1.yaml", "application/yaml"},
		{"/docs/swagger-ui-config.json", "application/json"},
	}
	for _, tc := range cases {
		resp := request(t, app, fiber.MethodGet, tc.path)
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("Expected 200 for %s, got %d", tc.path, resp.StatusCode)
		}
		if ct := resp.Header.Get(fiber.HeaderContentType); !strings.Contains(ct, tc.contentType) {
			t.Errorf("Expected %s content type for %s, got %q", tc.contentType, tc.path, ct)
		}
		resp.Body.Close()
	}
}

func TestSpecBytesRoundTrip(t *testing.T) {
	doc := []byte(`{"openapi":"3.1.0","info":{"title":"Orders"}}`)
	app := newApp(t, skyview.WithBasePath("/docs"), skyview.WithSpecs(skyview.SpecJSON("orders", doc)))

	resp := request(t, app, fiber.MethodGet, "/docs/orders.json")
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read the spec body: %v", err)
	}
	if string(body) != string(doc) {
		t.Errorf("Spec bytes differ from the registered document: %s", body)
	}
}

func TestConditionalAsset(t *testing.T) {
	app := newApp(t, skyview.WithBasePath("/docs"))

	resp := request(t, app, fiber.MethodGet, "/docs/swagger-ui.css")
	resp.Body.Close()
	tag := resp.Header.Get(fiber.HeaderETag)
	if tag == "" {
		t.Fatal("Expected an ETag on the asset response")
	}

	resp = request(t, app, fiber.MethodGet, "/docs/swagger-ui.css", fiber.HeaderIfNoneMatch, tag)
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotModified {
		t.Errorf("Expected 304, got %d", resp.StatusCode)
	}
}

func TestMissesAndRedirect(t *testing.T) {
	app := newApp(t, skyview.WithBasePath("/docs"), skyview.WithRedirectFallback(true))

	resp := request(t, app, fiber.MethodGet, "/docs/missing.js")
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for a miss, got %d", resp.StatusCode)
	}

	resp = request(t, app, fiber.MethodGet, "/docs/deep/link")
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("Expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get(fiber.HeaderLocation); loc != "/docs/" {
		t.Errorf("Expected redirect to the index, got %q", loc)
	}
}

func TestHeadResolvesAsGet(t *testing.T) {
	app := newApp(t, skyview.WithBasePath("/docs"))

	resp := request(t, app, fiber.MethodHead, "/docs/swagger-ui.css")
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 on HEAD, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.Contains(ct, "text/css") {
		t.Errorf("Expected the asset's content type on HEAD, got %q", ct)
	}
}
