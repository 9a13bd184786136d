// Package skyview serves a prebuilt Swagger UI bundle from Go applications.
// A UI value is assembled once from options, holds every byte it will ever
// serve, and resolves request paths without locks, so a single mount can back
// any number of concurrent handlers.
package skyview

import (
	"bytes"
	"io/fs"
	"strings"

	"github.com/agentstation/skyview/internal/assets"
	"github.com/agentstation/skyview/internal/bundle"
	"github.com/agentstation/skyview/pkg/errors"
)

const (
	// ConfigFileName is the reserved path, relative to the base path, where
	// the rendered UI configuration is served. Specs cannot claim it.
	ConfigFileName = "swagger-ui-config.json"

	// DefaultBasePath is where the UI mounts when WithBasePath is not given.
	DefaultBasePath = "/swagger-ui"
)

// Version reports the upstream Swagger UI release embedded in this package.
func Version() string {
	return bundle.Version
}

// specRoute is a resolved document endpoint under the mount.
type specRoute struct {
	body        []byte
	contentType string
}

// UI is an immutable Swagger UI mount. All fields are fixed by New;
// Resolve and the accessors are safe for unlimited concurrent use.
type UI struct {
	basePath         string
	specs            []Spec
	redirectFallback bool
	table            *assets.Table
	configJSON       []byte
	specRoutes       map[string]specRoute
}

// New assembles a UI mount. It loads the asset bundle, renders the
// initializer and configuration for the mount's base path, and registers
// one route per served spec. Construction fails rather than producing a
// mount that could serve a partial bundle.
func New(opts ...Option) (*UI, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	fsys := cfg.fsys
	if fsys == nil {
		dist, err := bundle.Dist()
		if err != nil {
			return nil, errors.WrapBundle("open", bundle.Dir, err)
		}
		fsys = dist
	}

	overrides := []assets.Option{
		assets.WithFile("swagger-initializer.js", renderInitializer(cfg.basePath)),
	}
	if cfg.title != "" {
		index, err := retitleIndex(fsys, cfg.title)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, assets.WithFile(assets.IndexFile, index))
	}

	table, err := assets.New(fsys, overrides...)
	if err != nil {
		return nil, err
	}

	routes := make(map[string]specRoute)
	for _, s := range cfg.specs {
		for _, route := range s.routes() {
			if _, taken := routes[route]; taken {
				return nil, errors.NewSpecError(s.Name, "route "+route+" already registered", errors.ErrDuplicateSpec)
			}
			routes[route] = specRoute{
				body:        s.Bytes,
				contentType: s.Format.ContentType(),
			}
		}
	}

	configJSON, err := renderConfig(cfg.basePath, cfg.specs, cfg.uiOptions)
	if err != nil {
		return nil, errors.NewSpecError("", "render config", err)
	}

	ui := &UI{
		basePath:         cfg.basePath,
		specs:            append([]Spec(nil), cfg.specs...),
		redirectFallback: cfg.redirectFallback,
		table:            table,
		configJSON:       configJSON,
		specRoutes:       routes,
	}

	if cfg.logger != nil {
		cfg.logger.Debug().
			Str("base_path", ui.indexPath()).
			Int("assets", table.Len()).
			Int("specs", len(cfg.specs)).
			Msg("swagger ui mount ready")
	}
	return ui, nil
}

// BasePath returns the normalized base path, "" for a root mount.
func (ui *UI) BasePath() string {
	return ui.basePath
}

// Specs returns the registered document sources in selector order.
func (ui *UI) Specs() []Spec {
	return append([]Spec(nil), ui.specs...)
}

// ConfigJSON returns a copy of the rendered configuration document.
// The bytes are identical across calls for the life of the mount.
func (ui *UI) ConfigJSON() []byte {
	return append([]byte(nil), ui.configJSON...)
}

// AssetPaths lists the bundle-relative paths the mount serves, sorted.
func (ui *UI) AssetPaths() []string {
	return ui.table.Paths()
}

// Resolve maps one request to the content that answers it. Only GET is
// served; adapters translate HEAD themselves. The returned Target shares
// the mount's buffers and must be treated as read-only.
func (ui *UI) Resolve(method, requestPath string) Target {
	if method != "GET" {
		return notFound
	}
	rel, ok := ui.stripBase(requestPath)
	if !ok {
		return notFound
	}
	if hasDotDotSegment(rel) {
		return notFound
	}

	if rel == ConfigFileName {
		return Target{
			Kind:        KindConfig,
			Body:        ui.configJSON,
			ContentType: "application/json",
		}
	}

	if route, ok := ui.specRoutes[rel]; ok {
		return Target{
			Kind:        KindSpec,
			Body:        route.body,
			ContentType: route.contentType,
		}
	}

	if asset, ok := ui.table.Lookup(rel); ok {
		kind := KindAsset
		if asset.Path == assets.IndexFile {
			kind = KindIndex
		}
		return Target{
			Kind:        kind,
			Body:        asset.Body,
			ContentType: asset.ContentType,
			ETag:        asset.ETag,
		}
	}

	// Unknown extensionless paths read as UI deep links, not missing files.
	if last := rel[strings.LastIndex(rel, "/")+1:]; !strings.Contains(last, ".") {
		if ui.redirectFallback {
			return Target{Kind: KindRedirect, Location: ui.indexPath()}
		}
		index, _ := ui.table.Lookup(assets.IndexFile)
		return Target{
			Kind:        KindIndex,
			Body:        index.Body,
			ContentType: index.ContentType,
			ETag:        index.ETag,
		}
	}
	return notFound
}

// stripBase rewrites a request path to be bundle-relative. The base itself
// and base+"/" both map to "", the index. Paths outside the mount fail.
func (ui *UI) stripBase(requestPath string) (string, bool) {
	if ui.basePath == "" {
		return strings.TrimPrefix(requestPath, "/"), true
	}
	if requestPath == ui.basePath {
		return "", true
	}
	if rest, ok := strings.CutPrefix(requestPath, ui.basePath+"/"); ok {
		return rest, true
	}
	return "", false
}

// indexPath is the canonical address of the index document.
func (ui *UI) indexPath() string {
	if ui.basePath == "" {
		return "/"
	}
	return ui.basePath + "/"
}

// retitleIndex loads index.html from fsys and swaps its document title.
// The stock page always carries a literal <title> element; a bundle without
// one is served unchanged.
func retitleIndex(fsys fs.FS, title string) ([]byte, error) {
	index, err := fs.ReadFile(fsys, assets.IndexFile)
	if err != nil {
		return nil, errors.WrapBundle("read", assets.IndexFile, err)
	}
	start := bytes.Index(index, []byte("<title>"))
	end := bytes.Index(index, []byte("</title>"))
	if start < 0 || end < start {
		return index, nil
	}
	out := make([]byte, 0, len(index)+len(title))
	out = append(out, index[:start+len("<title>")]...)
	out = append(out, title...)
	out = append(out, index[end:]...)
	return out, nil
}
