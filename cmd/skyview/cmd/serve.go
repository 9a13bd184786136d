package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/skyview/internal/cmd/emoji"
	"github.com/agentstation/skyview/internal/server"
	"github.com/agentstation/skyview/pkg/constants"
	"github.com/agentstation/skyview/pkg/logging"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Start a local documentation server",
	Long: `Serve starts a local Swagger UI server for your OpenAPI documents.

Documents given with --spec are read from disk and served under the
mount; --url entries are handed to the browser to fetch directly. With
--watch the server rebuilds the mount when a spec file changes and
pushes a reload to connected browsers over a WebSocket.

The server also exposes /healthz and, unless disabled, a Prometheus
/metrics endpoint.`,
	Example: `  # Serve one document under the default /docs mount
  skyview serve --spec api/openapi.yaml

  # Serve several documents with live reload
  skyview serve --spec v1.yaml --spec v2.yaml --watch

  # Point the UI at a document served elsewhere
  skyview serve --url https://petstore3.swagger.io/api/v3/openapi.json

  # Custom mount and UI behavior
  skyview serve --spec api.yaml --base-path /api-docs --ui-option docExpansion=list`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()

	serveCmd.Flags().String("host", defaults.Host, "Bind address")
	serveCmd.Flags().Int("port", defaults.Port, "Server port")
	serveCmd.Flags().String("base-path", defaults.BasePath, "Mount path for the UI")
	serveCmd.Flags().StringSlice("spec", nil, "OpenAPI document file to serve (repeatable)")
	serveCmd.Flags().StringSlice("url", nil, "Remote OpenAPI document URL (repeatable)")
	serveCmd.Flags().String("title", "", "Browser tab title")
	serveCmd.Flags().StringToString("ui-option", nil, "Swagger UI option as key=value (repeatable)")
	serveCmd.Flags().Bool("redirect-fallback", false, "Redirect unknown extensionless paths to the index instead of serving it inline")
	serveCmd.Flags().Bool("watch", false, "Rebuild and reload browsers when spec files change")

	serveCmd.Flags().Bool("cors", defaults.CORSEnabled, "Enable CORS")
	serveCmd.Flags().StringSlice("cors-origins", nil, "Allowed CORS origins (default all)")
	serveCmd.Flags().Float64("rate-limit", defaults.RateLimit, "Requests per second per IP (0 to disable)")
	serveCmd.Flags().Int("rate-burst", defaults.RateBurst, "Rate limit burst size")
	serveCmd.Flags().Bool("metrics", defaults.MetricsEnabled, "Enable the Prometheus metrics endpoint")

	serveCmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	serveCmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	serveCmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	bindServeFlags(serveCmd)
}

// bindServeFlags binds every serve flag into viper so SKYVIEW_ environment
// variables and the config file can override flag defaults.
func bindServeFlags(cmd *cobra.Command) {
	keys := []string{
		"host", "port", "base-path", "spec", "url", "title", "ui-option",
		"redirect-fallback", "watch", "cors", "cors-origins",
		"rate-limit", "rate-burst", "metrics",
		"read-timeout", "write-timeout", "idle-timeout",
	}
	for _, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", key, err))
		}
	}
}

// runServe starts the documentation server.
func runServe(cmd *cobra.Command, _ []string) error {
	cfg := parseServeConfig()
	logger := logging.Default()

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("base_path", cfg.BasePath).
		Int("spec_files", len(cfg.SpecFiles)).
		Int("spec_urls", len(cfg.SpecURLs)).
		Bool("watch", cfg.Watch).
		Msg("Starting documentation server")

	if cfg.Watch && len(cfg.SpecFiles) == 0 {
		logger.Warn().Msg("Watch mode enabled but no spec files to watch")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	srv.Start()

	return startWithGracefulShutdown(cmd.Context(), srv, logger)
}

// parseServeConfig reads the viper-bound serve flags into a server config.
func parseServeConfig() server.Config {
	cfg := server.DefaultConfig()

	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.BasePath = viper.GetString("base-path")
	cfg.SpecFiles = viper.GetStringSlice("spec")
	cfg.SpecURLs = viper.GetStringSlice("url")
	cfg.Title = viper.GetString("title")
	cfg.UIOptions = parseUIOptions(viper.GetStringMapString("ui-option"))
	cfg.RedirectFallback = viper.GetBool("redirect-fallback")
	cfg.Watch = viper.GetBool("watch")
	cfg.CORSEnabled = viper.GetBool("cors")
	cfg.CORSOrigins = viper.GetStringSlice("cors-origins")
	cfg.RateLimit = viper.GetFloat64("rate-limit")
	cfg.RateBurst = viper.GetInt("rate-burst")
	cfg.MetricsEnabled = viper.GetBool("metrics")
	cfg.ReadTimeout = viper.GetDuration("read-timeout")
	cfg.WriteTimeout = viper.GetDuration("write-timeout")
	cfg.IdleTimeout = viper.GetDuration("idle-timeout")

	return cfg
}

// parseUIOptions converts flag values into typed UI options. Values that
// parse as JSON keep their type, so deepLinking=true becomes a boolean
// while docExpansion=list stays a string.
func parseUIOptions(raw map[string]string) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	options := make(map[string]any, len(raw))
	for key, value := range raw {
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			options[key] = parsed
		} else {
			options[key] = value
		}
	}
	return options
}

// startWithGracefulShutdown runs the HTTP server until the context is
// cancelled, then drains connections and stops background services.
func startWithGracefulShutdown(ctx context.Context, srv *server.Server, logger *zerolog.Logger) error {
	httpServer := srv.HTTPServer()
	docsURL := fmt.Sprintf("http://%s%s/", httpServer.Addr, srv.UI().BasePath())

	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("HTTP server listening")

		fmt.Printf("🚀 Serving docs on %s\n", docsURL)
		fmt.Println("   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Printf("\n%s Shutting down documentation server...\n", emoji.Stop)

		// The signal context is already cancelled, so the drain deadline
		// needs a fresh context.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Printf("%s Documentation server stopped gracefully\n", emoji.Success)
		return nil
	}
}
