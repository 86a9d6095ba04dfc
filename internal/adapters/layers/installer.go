package layers

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/zerr"

	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// Installer materializes resolved yarn releases into a layer directory.
type Installer struct {
	fetcher  ports.ArtifactFetcher
	logger   ports.Logger
	platform string
}

// NewInstaller creates an Installer for the current platform.
func NewInstaller(fetcher ports.ArtifactFetcher, logger ports.Logger) *Installer {
	return &Installer{
		fetcher:  fetcher,
		logger:   logger,
		platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var _ ports.ToolInstaller = (*Installer)(nil)

// InstallYarn installs the release into layerDir, reusing the layer when its
// metadata already records the same version. All staging happens in a
// sibling temp directory committed by rename, so a failed install leaves the
// layer exactly as it was.
func (i *Installer) InstallYarn(ctx context.Context, release *domain.Release, layerDir string) (domain.Environment, bool, error) {
	env := domain.Environment{}.Prepend("PATH", filepath.Join(layerDir, "bin"), domain.ScopeAll)

	meta, err := readMetadata(layerDir)
	if err != nil {
		return nil, false, err
	}
	if meta.Version == release.Version.String() {
		if _, statErr := os.Stat(layerDir); statErr == nil {
			i.logger.Info("Reusing yarn " + meta.Version)
			return env, true, nil
		}
	}

	artifact, err := release.ArtifactFor(i.platform)
	if err != nil {
		return nil, false, err
	}

	parent := filepath.Dir(filepath.Clean(layerDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, false, zerr.Wrap(err, "prepare layer parent")
	}
	workDir, err := os.MkdirTemp(parent, ".yarn-install-*")
	if err != nil {
		return nil, false, zerr.Wrap(err, "create staging directory")
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(workDir)
		}
	}()

	archive := filepath.Join(workDir, "yarn.tgz")
	if err := i.fetcher.Fetch(ctx, artifact.URL, archive); err != nil {
		fetchErr := zerr.Wrap(domain.ErrArtifactUnavailable, err.Error())
		return nil, false, zerr.With(fetchErr, "url", artifact.URL)
	}

	if err := verifyChecksum(archive, artifact.SHA256); err != nil {
		return nil, false, err
	}

	distDir := filepath.Join(workDir, "dist")
	if err := extractTarGz(archive, distDir); err != nil {
		return nil, false, zerr.Wrap(domain.ErrArtifactUnavailable, err.Error())
	}

	if err := os.RemoveAll(layerDir); err != nil {
		return nil, false, zerr.Wrap(err, "replace layer directory")
	}
	if err := os.Rename(distDir, layerDir); err != nil {
		return nil, false, zerr.Wrap(err, "commit layer directory")
	}
	committed = true
	_ = os.RemoveAll(workDir)

	if err := writeMetadata(layerDir, metadata{Version: release.Version.String()}); err != nil {
		return nil, false, err
	}

	i.logger.Info("Installed yarn " + release.Version.String())
	return env, false, nil
}

// verifyChecksum compares the file's sha256 digest against the inventory
// entry. A mismatch is fatal: unverified content is never installed.
func verifyChecksum(path, expected string) error {
	f, err := os.Open(path) //nolint:gosec // staging file created by us
	if err != nil {
		return zerr.Wrap(err, "open artifact")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return zerr.Wrap(err, "hash artifact")
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		err := zerr.With(zerr.Wrap(domain.ErrChecksumMismatch, "verify artifact"), "expected", expected)
		return zerr.With(err, "actual", actual)
	}
	return nil
}

// extractTarGz unpacks archive into dest, stripping the single top-level
// directory yarn tarballs wrap their content in.
func extractTarGz(archive, dest string) error {
	f, err := os.Open(archive) //nolint:gosec // staging file created by us
	if err != nil {
		return zerr.Wrap(err, "open archive")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	gz, err := gzip.NewReader(f)
	if err != nil {
		return zerr.Wrap(err, "read gzip header")
	}
	defer gz.Close() //nolint:errcheck // Best effort close in defer

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "read archive entry")
		}

		rel := stripComponent(hdr.Name)
		if rel == "" {
			continue
		}
		target, err := securePath(dest, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return zerr.Wrap(err, "create directory")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return zerr.Wrap(err, "create parent directory")
			}
			mode := os.FileMode(hdr.Mode) & 0o777 //nolint:gosec // tar header mode fits
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
			if err != nil {
				return zerr.Wrap(err, "create file")
			}
			if _, err := io.Copy(out, tr); err != nil { //nolint:gosec // archive verified by checksum
				_ = out.Close()
				return zerr.Wrap(err, "write file")
			}
			if err := out.Close(); err != nil {
				return zerr.Wrap(err, "close file")
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return zerr.Wrap(err, "create parent directory")
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return zerr.Wrap(err, "create symlink")
			}
		}
	}
}

// stripComponent drops the first path component of a tar entry name.
func stripComponent(name string) string {
	name = strings.TrimPrefix(name, "./")
	if idx := strings.IndexByte(name, '/'); idx >= 0 {
		return name[idx+1:]
	}
	return ""
}

// securePath joins rel under dest, rejecting traversal outside dest.
func securePath(dest, rel string) (string, error) {
	target := filepath.Join(dest, rel)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", zerr.With(zerr.New("archive entry escapes destination"), "entry", rel)
	}
	return target, nil
}
