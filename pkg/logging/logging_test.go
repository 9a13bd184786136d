package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	if logging.Default() == nil {
		t.Fatal("Default returned nil")
	}
}

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Default().Info().Str("mount", "/swagger-ui").Msg("mounted")

	if !strings.Contains(buf.String(), `"mount":"/swagger-ui"`) {
		t.Errorf("Expected structured field in output, got: %s", buf.String())
	}
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Info().Str("spec", "v1").Msg("registered spec")

	if !tl.Contains("registered spec") {
		t.Errorf("TestLogger did not capture output: %s", tl.Output())
	}
	if !tl.Contains(`"spec":"v1"`) {
		t.Errorf("Expected JSON field in output: %s", tl.Output())
	}
}
