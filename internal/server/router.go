package server

import (
	"net/http"

	"github.com/agentstation/skyview/internal/server/handlers"
	"github.com/agentstation/skyview/internal/server/middleware"
	ws "github.com/agentstation/skyview/internal/server/websocket"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	// Create handlers instance
	h := handlers.New(s.UI, s.hub, s.logger)

	// Register routes
	s.registerRoutes(mux, h)

	// Apply middleware chain
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	// Favicon handler (return 204 No Content to avoid 404 logs; the
	// bundle ships PNG icons, not a favicon.ico)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/healthz", h.HandleHealth)

	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	if s.hub != nil {
		mux.HandleFunc(handlers.ReloadScriptPath, h.HandleReloadScript)
		mux.Handle(handlers.ReloadSocketPath, ws.ServeWS(s.hub, s.logger))
	}

	// The UI mount claims its base and everything beneath it. A root
	// mount registers the catch-all; the fixed routes above still win.
	base := s.UI().BasePath()
	if base == "" {
		mux.HandleFunc("/", h.HandleMount)
		return
	}
	mux.HandleFunc(base, h.HandleMount)
	mux.HandleFunc(base+"/", h.HandleMount)
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// Rate limiting (if enabled)
	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, s.logger)
		rateLimiter.OnDrop(s.metrics.RateLimitDropped.Inc)
		handler = middleware.RateLimit(rateLimiter)(handler)
	}

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Request accounting sits outside CORS and rate limiting so rejected
	// requests are still counted
	if cfg.MetricsEnabled {
		handler = s.metrics.Middleware(handler)
	}

	// Logging, request ids, and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
