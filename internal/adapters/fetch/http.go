// Package fetch downloads tool artifacts over HTTP.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
)

const defaultTimeout = 5 * time.Minute

// HTTPFetcher implements ports.ArtifactFetcher using net/http.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher with a bounded request timeout.
func New() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch downloads url into dest. The download lands in a temp file next to
// dest first and is moved into place only when complete, so a partial
// download never masquerades as an artifact.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return zerr.Wrap(err, "prepare download destination")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zerr.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", "yarnpack/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "download failed"), "url", url)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := zerr.With(zerr.New("unexpected download status"), "status", resp.Status)
		return zerr.With(err, "url", url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return zerr.Wrap(err, "create temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // No-op once renamed

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		return zerr.With(zerr.Wrap(err, "write download"), "url", url)
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "close download")
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return zerr.Wrap(err, "commit download")
	}
	return nil
}
