// Package server implements the skyview dev server: a Swagger UI mount
// wrapped with health, metrics, and optional live reload on spec changes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agentstation/skyview"
	"github.com/agentstation/skyview/internal/server/metrics"
	ws "github.com/agentstation/skyview/internal/server/websocket"
	"github.com/agentstation/skyview/pkg/errors"
)

// Server holds the HTTP server state and dependencies. The mount itself is
// held behind an atomic pointer: watch mode rebuilds it on spec changes and
// swaps it in without touching in-flight requests.
type Server struct {
	current  atomic.Pointer[skyview.UI]
	config   Config
	hub      *ws.Hub
	watcher  *watcher
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new server instance with the given configuration. The
// initial mount is built here so a bad spec file fails fast instead of
// surfacing as a broken page.
func New(cfg Config, logger *zerolog.Logger) (*Server, error) {
	logger.Debug().Msg("Creating new server instance")

	ui, err := BuildUI(cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		config:   cfg,
		registry: registry,
		metrics:  metrics.New(registry, ui.BasePath()),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	server.current.Store(ui)

	if cfg.Watch {
		logger.Debug().Msg("Creating reload hub")
		server.hub = ws.NewHub(logger)
		server.hub.OnCountChange(func(n int) {
			server.metrics.ReloadClients.Set(float64(n))
		})

		logger.Debug().Int("files", len(cfg.SpecFiles)).Msg("Creating spec watcher")
		w, err := newWatcher(cfg.SpecFiles, server.rebuild, logger)
		if err != nil {
			cancel()
			return nil, err
		}
		server.watcher = w
	}

	logger.Debug().Msg("Server instance created successfully")
	return server, nil
}

// BuildUI assembles a mount from the configured files, URLs, and options.
// The config command uses it directly to preview what a mount would serve.
func BuildUI(cfg Config, logger *zerolog.Logger) (*skyview.UI, error) {
	specs := make([]skyview.Spec, 0, len(cfg.SpecFiles)+len(cfg.SpecURLs))
	for _, p := range cfg.SpecFiles {
		spec, err := loadSpecFile(p, logger)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for i, raw := range cfg.SpecURLs {
		specs = append(specs, skyview.SpecURL(specNameFromURL(raw, i), raw))
	}

	opts := []skyview.Option{
		skyview.WithBasePath(cfg.BasePath),
		skyview.WithSpecs(specs...),
		skyview.WithRedirectFallback(cfg.RedirectFallback),
		skyview.WithLogger(logger),
	}
	if cfg.Title != "" {
		opts = append(opts, skyview.WithTitle(cfg.Title))
	}
	if len(cfg.UIOptions) > 0 {
		opts = append(opts, skyview.WithUIOptions(cfg.UIOptions))
	}

	return skyview.New(opts...)
}

// loadSpecFile reads one document from disk. The route name is the file
// stem, and the declared format follows the extension. Malformed documents
// are served anyway: the browser rendering the parse error beats the dev
// server refusing to start.
func loadSpecFile(p string, logger *zerolog.Logger) (skyview.Spec, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return skyview.Spec{}, errors.WrapSpecFile(p, err)
	}

	name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))

	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		if !json.Valid(data) {
			logger.Warn().Str("file", p).Msg("Spec file is not valid JSON")
		}
		return skyview.SpecJSON(name, data), nil
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			logger.Warn().Str("file", p).Err(err).Msg("Spec file is not valid YAML")
		}
		return skyview.SpecYAML(name, data), nil
	default:
		return skyview.SpecBytes(name, data), nil
	}
}

// specNameFromURL derives a route-friendly name from a remote spec URL.
func specNameFromURL(raw string, i int) string {
	fallback := "spec" + strconv.Itoa(i+1)
	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	base := path.Base(u.Path)
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}

// rebuild constructs a fresh mount and swaps it in. Invoked by the watcher
// after a debounced burst of spec file changes.
func (s *Server) rebuild() {
	ui, err := BuildUI(s.config, s.logger)
	if err != nil {
		s.metrics.UIRebuildErrors.Inc()
		s.logger.Error().Err(err).Msg("Mount rebuild failed, serving previous state")
		return
	}

	s.current.Store(ui)
	s.metrics.UIRebuilds.Inc()
	s.logger.Info().
		Int("specs", len(ui.Specs())).
		Int("assets", len(ui.AssetPaths())).
		Msg("Mount rebuilt")

	if s.hub != nil {
		s.hub.BroadcastReload()
		s.metrics.ReloadBroadcasts.Inc()
	}
}

// UI returns the currently served mount.
func (s *Server) UI() *skyview.UI {
	return s.current.Load()
}

// Hub returns the reload hub, nil when watch mode is off.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Start starts background services (reload hub and spec watcher).
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting background services")

	if s.hub != nil {
		s.logger.Debug().Msg("Starting reload hub")
		go s.hub.Run(s.ctx)
	}
	if s.watcher != nil {
		s.logger.Debug().Msg("Starting spec watcher")
		go s.watcher.run(s.ctx)
	}

	s.logger.Debug().Msg("All background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer builds the net/http server with the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown gracefully shuts down background services.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")

	s.cancel()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Watcher close failed")
		}
	}

	// Give the hub a moment to close client channels
	time.Sleep(100 * time.Millisecond)
	s.logger.Info().Msg("Background services shut down")
	return nil
}
