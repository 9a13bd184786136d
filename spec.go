package skyview

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/agentstation/skyview/pkg/errors"
)

// Format identifies the serialization of a registered OpenAPI document.
type Format string

const (
	// FormatJSON marks a JSON document.
	FormatJSON Format = "json"

	// FormatYAML marks a YAML document.
	FormatYAML Format = "yaml"
)

// Ext returns the format's file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the media type documents of this format are served with.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Spec is one named OpenAPI document source the UI offers in its selector.
// Either URL is set (the browser fetches the document itself, nothing is
// served locally) or Bytes is set (the mount serves the document under the
// entry's name). Entries are read-only once registered.
type Spec struct {
	Name   string
	URL    string
	Bytes  []byte
	Format Format
}

// SpecURL registers an external document the browser should fetch directly.
func SpecURL(name, url string) Spec {
	return Spec{Name: name, URL: url}
}

// SpecJSON registers a JSON document served from bytes.
func SpecJSON(name string, data []byte) Spec {
	return Spec{Name: name, Bytes: data, Format: FormatJSON}
}

// SpecYAML registers a YAML document served from bytes.
func SpecYAML(name string, data []byte) Spec {
	return Spec{Name: name, Bytes: data, Format: FormatYAML}
}

// SpecBytes registers a document served from bytes, sniffing the format.
// Valid JSON is JSON; anything else is assumed YAML. The document content
// is never validated beyond that.
func SpecBytes(name string, data []byte) Spec {
	return Spec{Name: name, Bytes: data, Format: sniffFormat(data)}
}

// sniffFormat picks the wire format for untyped document bytes.
func sniffFormat(data []byte) Format {
	if json.Valid(bytes.TrimSpace(data)) {
		return FormatJSON
	}
	return FormatYAML
}

// served reports whether the mount serves this entry locally.
func (s Spec) served() bool {
	return len(s.Bytes) > 0
}

// href is the URL the rendered config advertises for this entry: the
// caller's URL verbatim, or the mount-relative route for byte entries.
func (s Spec) href(basePath string) string {
	if s.URL != "" {
		return s.URL
	}
	return joinBase(basePath, s.Name)
}

// routes lists the relative paths this entry answers on. Byte entries serve
// under their bare name and, when the name does not already carry a document
// extension, under name.<ext> as well, so "api1" with JSON bytes answers at
// both api1 and api1.json.
func (s Spec) routes() []string {
	if !s.served() {
		return nil
	}
	if hasDocExt(s.Name) {
		return []string{s.Name}
	}
	return []string{s.Name, s.Name + "." + s.Format.Ext()}
}

// validate rejects entries that cannot be registered.
func (s Spec) validate() error {
	if s.Name == "" {
		return errors.NewSpecError(s.Name, "name must not be empty", nil)
	}
	if strings.HasPrefix(s.Name, "/") {
		return errors.NewSpecError(s.Name, "name must be relative to the mount", nil)
	}
	if hasDotDotSegment(s.Name) {
		return errors.NewSpecError(s.Name, "name must not contain a .. segment", nil)
	}
	if s.Name == ConfigFileName {
		return errors.NewSpecError(s.Name, "name collides with the reserved config endpoint", nil)
	}
	if s.URL == "" && !s.served() {
		return errors.NewSpecError(s.Name, "entry needs a URL or document bytes", nil)
	}
	if s.URL != "" && s.served() {
		return errors.NewSpecError(s.Name, "entry cannot carry both a URL and document bytes", nil)
	}
	if s.served() && s.Format != FormatJSON && s.Format != FormatYAML {
		return errors.NewSpecError(s.Name, "unknown document format", nil)
	}
	return nil
}

// hasDocExt reports whether a spec name already ends in a recognized
// document extension.
func hasDocExt(name string) bool {
	return strings.HasSuffix(name, ".json") ||
		strings.HasSuffix(name, ".yaml") ||
		strings.HasSuffix(name, ".yml")
}

// hasDotDotSegment reports whether any forward-slash segment is "..".
func hasDotDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// joinBase joins a mount-relative path onto the base path.
func joinBase(basePath, rel string) string {
	if basePath == "" {
		return "/" + rel
	}
	return basePath + "/" + rel
}
