// Package assets builds the immutable lookup table a mount serves the UI
// bundle from. The table is constructed once from an fs.FS, owns its file
// contents, and is safe for concurrent lookups without locking.
package assets

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/agentstation/skyview/pkg/errors"
)

// IndexFile is the path the empty and root lookups normalize to.
const IndexFile = "index.html"

// Asset is one file of the UI bundle, fixed at table build time.
type Asset struct {
	Path        string
	ContentType string
	ETag        string
	Body        []byte
}

// Table maps relative forward-slash paths to bundle assets. Immutable after
// New returns; lookups are pure.
type Table struct {
	assets map[string]Asset
}

type builder struct {
	overrides []override
}

type override struct {
	path string
	body []byte
}

// Option adjusts table construction.
type Option func(*builder)

// WithFile adds a file to the table, replacing any embedded file at the same
// path. The mount uses this to install its generated swagger-initializer.js.
func WithFile(p string, body []byte) Option {
	return func(b *builder) {
		b.overrides = append(b.overrides, override{path: p, body: body})
	}
}

// New walks fsys and builds the asset table. Content types and ETags are
// derived once here, never per request. A source without index.html is
// rejected: serving a bundle that cannot render its entry point would fail
// on every page load.
func New(fsys fs.FS, opts ...Option) (*Table, error) {
	if fsys == nil {
		return nil, errors.NewBundleError("open", "", errors.New("nil filesystem"))
	}

	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	assets := make(map[string]Asset)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapBundle("walk", p, err)
		}
		if d.IsDir() {
			return nil
		}

		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.WrapBundle("read", p, err)
		}

		assets[p] = build(p, body)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, o := range b.overrides {
		p := strings.TrimPrefix(o.path, "/")
		if p == "" {
			return nil, errors.NewBundleError("build", o.path, errors.New("empty override path"))
		}
		// Clone so later caller-side mutation cannot reach the table.
		assets[p] = build(p, bytes.Clone(o.body))
	}

	if _, ok := assets[IndexFile]; !ok {
		return nil, errors.NewBundleError("build", IndexFile, errors.New("bundle has no index document"))
	}

	return &Table{assets: assets}, nil
}

// build derives the fixed per-asset metadata.
func build(p string, body []byte) Asset {
	return Asset{
		Path:        p,
		ContentType: contentType(p),
		ETag:        etag(body),
		Body:        body,
	}
}

// Lookup resolves a table-relative path to its asset. Empty path and "/"
// mean the index document. Paths carrying a ".." segment never match,
// regardless of what they would resolve to.
func (t *Table) Lookup(p string) (Asset, bool) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		p = IndexFile
	}

	if hasDotDot(p) {
		return Asset{}, false
	}

	a, ok := t.assets[p]
	return a, ok
}

// Index returns the index document bytes. The table guarantees presence.
func (t *Table) Index() Asset {
	return t.assets[IndexFile]
}

// Len returns the number of assets in the table.
func (t *Table) Len() int {
	return len(t.assets)
}

// Paths returns the asset paths in sorted order.
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.assets))
	for p := range t.assets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// hasDotDot reports whether any forward-slash segment is "..".
func hasDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// fallbackTypes covers extensions the stdlib table may not know.
var fallbackTypes = map[string]string{
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".map":  "application/json",
	".ico":  "image/x-icon",
}

// contentType guesses a MIME type from the file extension.
func contentType(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	if ct, ok := fallbackTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// etag derives the stable entity tag for a body. Identical bytes always
// produce identical tags, across processes and restarts.
func etag(body []byte) string {
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%q", hex.EncodeToString(sum[:])[:16])
}
