package skyview

import (
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview/pkg/errors"
)

// Option is a function that configures a UI mount
type Option func(*config) error

// config collects mount settings before New freezes them into a UI.
type config struct {
	basePath         string
	specs            []Spec
	uiOptions        map[string]any
	redirectFallback bool
	fsys             fs.FS
	title            string
	logger           *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		basePath:  DefaultBasePath,
		uiOptions: make(map[string]any),
	}
}

// WithBasePath configures the mount's base path, e.g. "/docs". Pass "" or
// "/" to mount at the server root. A trailing slash is dropped so that
// base and base+"/" resolve identically.
func WithBasePath(path string) Option {
	return func(c *config) error {
		switch path {
		case "", "/":
			c.basePath = ""
			return nil
		}
		if path[0] != '/' {
			return errors.NewOptionError("WithBasePath", "path must start with /")
		}
		for len(path) > 1 && path[len(path)-1] == '/' {
			path = path[:len(path)-1]
		}
		c.basePath = path
		return nil
	}
}

// WithSpecs registers OpenAPI document sources in selector order.
func WithSpecs(specs ...Spec) Option {
	return func(c *config) error {
		for _, s := range specs {
			if err := s.validate(); err != nil {
				return err
			}
		}
		c.specs = append(c.specs, specs...)
		return nil
	}
}

// WithUIOption passes one display option through to the UI verbatim.
// Recognized keys include deepLinking, displayOperationId,
// defaultModelsExpandDepth, docExpansion, filter and persistAuthorization;
// values are never interpreted or validated here.
func WithUIOption(key string, value any) Option {
	return func(c *config) error {
		if key == "" {
			return errors.NewOptionError("WithUIOption", "key must not be empty")
		}
		c.uiOptions[key] = value
		return nil
	}
}

// WithUIOptions passes a set of display options through verbatim.
func WithUIOptions(opts map[string]any) Option {
	return func(c *config) error {
		for k, v := range opts {
			if k == "" {
				return errors.NewOptionError("WithUIOptions", "keys must not be empty")
			}
			c.uiOptions[k] = v
		}
		return nil
	}
}

// WithRedirectFallback switches the extensionless-miss fallback from serving
// the index document inline to answering with a redirect to the mount's
// index path. The choice is fixed per mount, never per request.
func WithRedirectFallback(enabled bool) Option {
	return func(c *config) error {
		c.redirectFallback = enabled
		return nil
	}
}

// WithBundle serves assets from fsys instead of the embedded distribution.
// The tree must contain index.html at its root.
func WithBundle(fsys fs.FS) Option {
	return func(c *config) error {
		if fsys == nil {
			return errors.NewOptionError("WithBundle", "filesystem must not be nil")
		}
		c.fsys = fsys
		return nil
	}
}

// WithTitle replaces the HTML document title of the served index page.
func WithTitle(title string) Option {
	return func(c *config) error {
		c.title = title
		return nil
	}
}

// WithLogger attaches a logger for construction diagnostics. The mount is
// silent without one.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
