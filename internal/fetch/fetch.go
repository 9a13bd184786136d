// Package fetch downloads upstream Swagger UI release archives and extracts
// the distribution subset the embedded bundle carries. It backs the
// `skyview fetch` command; the library itself never touches the network.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/skyview/internal/bundle"
	"github.com/agentstation/skyview/pkg/constants"
	"github.com/agentstation/skyview/pkg/errors"
)

// Client downloads and unpacks upstream release archives.
type Client struct {
	http       *http.Client
	archiveURL string
	maxSize    int64
	logger     *zerolog.Logger
}

// New creates a fetch client with the default archive location and size cap.
func New(logger *zerolog.Logger) *Client {
	return &Client{
		http:       &http.Client{Timeout: constants.DefaultHTTPTimeout},
		archiveURL: constants.ReleaseArchiveURL,
		maxSize:    constants.MaxArchiveSize,
		logger:     logger,
	}
}

// Refresh downloads the release archive for version and extracts the
// distribution files into destDir.
func (c *Client) Refresh(ctx context.Context, version, destDir string) error {
	archive, err := c.Download(ctx, version)
	if err != nil {
		return err
	}
	return c.Extract(archive, version, destDir)
}

// Download fetches the release archive for version and returns its bytes.
func (c *Client) Download(ctx context.Context, version string) ([]byte, error) {
	url := fmt.Sprintf(c.archiveURL, version)

	c.logger.Info().
		Str("url", url).
		Str("version", version).
		Msg("Downloading release archive")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapFetch(url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapFetch(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewFetchError(url, resp.StatusCode, nil)
	}

	// Read one byte past the cap so an at-limit archive is distinguishable
	// from an oversized one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, errors.WrapFetch(url, err)
	}
	if int64(len(data)) > c.maxSize {
		return nil, errors.NewFetchError(url, 0,
			fmt.Errorf("archive exceeds %d byte limit", c.maxSize))
	}

	c.logger.Debug().
		Int("bytes", len(data)).
		Msg("Release archive downloaded")

	return data, nil
}

// Extract unpacks the distribution files from a release archive into destDir.
// The archive must contain every file the embedded bundle ships; entries
// outside the dist tree are ignored and path-escaping entries are rejected.
func (c *Client) Extract(archive []byte, version, destDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("reading release archive: %w", err)
	}

	if err := os.MkdirAll(destDir, constants.DirPermissions); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	wanted := make(map[string]bool)
	for _, name := range bundle.Files() {
		wanted[name] = true
	}

	// Upstream archives nest everything under swagger-ui-{version}/.
	prefix := fmt.Sprintf("swagger-ui-%s/%s/", version, bundle.Dir)

	extracted := make(map[string]bool)
	for _, entry := range zr.File {
		if !strings.HasPrefix(entry.Name, prefix) {
			continue
		}
		rel := strings.TrimPrefix(entry.Name, prefix)
		if strings.Contains(rel, "..") {
			return fmt.Errorf("archive entry %s escapes the dist tree", entry.Name)
		}
		if !wanted[rel] {
			continue
		}

		if err := c.extractFile(entry, filepath.Join(destDir, filepath.FromSlash(rel))); err != nil {
			return err
		}
		extracted[rel] = true
	}

	var missing []string
	for _, name := range bundle.Files() {
		if !extracted[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("release archive missing distribution files: %s",
			strings.Join(missing, ", "))
	}

	c.logger.Info().
		Int("files", len(extracted)).
		Str("dir", destDir).
		Msg("Distribution extracted")

	return nil
}

func (c *Client) extractFile(entry *zip.File, dest string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	// Cap decompression as well as download size.
	data, err := io.ReadAll(io.LimitReader(rc, c.maxSize))
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", entry.Name, err)
	}

	if err := os.WriteFile(dest, data, constants.FilePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	c.logger.Debug().
		Str("file", dest).
		Int("bytes", len(data)).
		Msg("Extracted")

	return nil
}
