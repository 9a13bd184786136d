package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview/pkg/constants"
)

// Config selects where logs go and what they look like.
type Config struct {
	// Level is the minimum level to emit (trace through disabled).
	Level string

	// Format is json, console, or auto. Auto picks console when stderr
	// is a terminal.
	Format string

	// Output is stderr, stdout, discard, or a file path.
	Output string

	// TimeFormat names a timestamp layout (kitchen, rfc3339, unix,
	// stamp) or gives one literally.
	TimeFormat string

	// NoColor disables color in console output.
	NoColor bool

	// AddCaller stamps file:line on every event.
	AddCaller bool
}

// DefaultConfig mirrors what a bare process start would use: info level
// unless LOG_LEVEL or DEBUG says otherwise, auto format on stderr.
func DefaultConfig() *Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
		if os.Getenv("DEBUG") != "" {
			level = "debug"
		}
	}
	return &Config{
		Level:      level,
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// Configure rebuilds the process-wide logger from cfg. A nil cfg restores
// the defaults.
func Configure(cfg *Config) {
	SetDefault(build(cfg))
}

func build(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer(cfg)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// writer resolves the output destination, then wraps it for console
// rendering when the format calls for it.
func writer(cfg *Config) io.Writer {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	case "discard", "none":
		out = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && f == os.Stderr && isTerminal(f) {
			format = "console"
		}
	}

	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeLayout(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	}
	return out
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "warn", "warning":
		return zerolog.WarnLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if level, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil && s != "" {
			return level
		}
		return zerolog.InfoLevel
	}
}

// timeLayout maps friendly names to layouts; an explicit layout passes
// through untouched.
func timeLayout(name string) string {
	switch strings.ToLower(name) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		// The console writer treats an empty layout as Unix seconds.
		return ""
	case "stamp":
		return time.Stamp
	default:
		return name
	}
}
