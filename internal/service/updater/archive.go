package updater

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/logger"
)

const (
	// installDirPermissions is read/execute for everyone, write for owner.
	installDirPermissions = 0o755
)

// errUnsafeArchivePath is returned when an archive entry would escape the
// extraction directory.
var errUnsafeArchivePath = errors.New("archive entry path escapes destination")

// EnsureInstalled makes sure the release's versioned install directory exists
// and returns its path.
//
// An existing directory is the source of truth for "already installed", so
// the call is idempotent and performs no network or extraction work on repeat
// invocations. A fresh install is built in a hidden staging directory next to
// the final name and made visible with a single atomic rename; the final name
// never exists in a partially extracted state.
func (s *Service) EnsureInstalled(ctx context.Context, rel *release.Release) (string, error) {
	if rel == nil {
		return "", errReleaseNotSet
	}

	target := s.layout.InstallDir(rel.TagName)
	if _, err := os.Stat(target); err == nil {
		logger.InfoKV(ctx, "Release is already installed", "tag", rel.TagName, "path", target)
		return target, nil
	}

	downloadURL, err := rel.DownloadURL(s.cfg.AssetRegexp())
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(s.layout.RuntimeDir(), installDirPermissions); err != nil {
		return "", fmt.Errorf("create runtime directory: %w", err)
	}

	logger.InfoKV(ctx, "Downloading release archive", "tag", rel.TagName, "url", downloadURL)

	archive, err := s.client.Get(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}

	staging, err := os.MkdirTemp(s.layout.RuntimeDir(), "."+filepath.Base(target)+".")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	if err = extractTar(bytes.NewReader(archive), staging); err != nil {
		_ = os.RemoveAll(staging)
		return "", fmt.Errorf("extract archive: %w", err)
	}

	if err = os.Chmod(staging, installDirPermissions); err != nil {
		_ = os.RemoveAll(staging)
		return "", fmt.Errorf("set install permissions: %w", err)
	}

	return s.finishInstall(ctx, staging, target)
}

// finishInstall renames the fully extracted staging directory onto the final
// versioned name.
//
// When two processes race to install the same tag, the rename of the loser
// fails because the winner's directory already occupies the name. That is
// treated as success (first writer wins): the existing directory is complete
// by construction, so the loser discards its staging copy and uses it.
func (s *Service) finishInstall(ctx context.Context, staging, target string) (string, error) {
	if err := os.Rename(staging, target); err != nil {
		if _, statErr := os.Stat(target); statErr == nil {
			logger.InfoKV(ctx, "Another process already installed this release", "path", target)
			_ = os.RemoveAll(staging)

			return target, nil
		}

		_ = os.RemoveAll(staging)

		return "", fmt.Errorf("rename install into place: %w", err)
	}

	return target, nil
}

// extractTar unpacks a tar archive, transparently gunzipping it when the
// stream carries the gzip magic, into dest.
func extractTar(r io.Reader, dest string) error {
	buffered := bufio.NewReader(r)

	magic, err := buffered.Peek(2)
	if err != nil {
		return fmt.Errorf("read archive header: %w", err)
	}

	var stream io.Reader = buffered

	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return fmt.Errorf("open gzip stream: %w", err)
		}

		defer func() {
			_ = gz.Close()
		}()

		stream = gz
	}

	tr := tar.NewReader(stream)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		if err = extractEntry(tr, header, dest); err != nil {
			return err
		}
	}
}

// extractEntry writes a single tar entry below dest.
// Entry types other than directories, regular files and symlinks are skipped.
func extractEntry(tr *tar.Reader, header *tar.Header, dest string) error {
	name := filepath.Clean(header.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %s", errUnsafeArchivePath, header.Name)
	}

	path := filepath.Join(dest, name)
	mode := header.FileInfo().Mode().Perm()

	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(path, mode)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(path), installDirPermissions); err != nil {
			return err
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			return err
		}

		if _, err = io.Copy(file, tr); err != nil {
			_ = file.Close()
			return fmt.Errorf("extract %s: %w", header.Name, err)
		}

		return file.Close()
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(path), installDirPermissions); err != nil {
			return err
		}

		return os.Symlink(header.Linkname, path)
	default:
		return nil
	}
}
