package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/logger"
)

// promote atomically repoints the active-version link at installedDir and
// garbage-collects the version the link pointed to before.
//
// The repoint is a symlink created under a tag-qualified transient name and
// renamed onto the canonical link path. A rename replaces the directory
// entry, so any process resolving the canonical path observes either the old
// or the new target, never an intermediate state. Garbage collection is best
// effort: an orphaned old version is acceptable, a corrupted active link is
// not.
func (s *Service) promote(ctx context.Context, installedDir, tag string) error {
	linkPath := s.layout.ActiveLinkPath()

	oldTarget, hadOldTarget := readLinkTarget(linkPath)
	if hadOldTarget && oldTarget == installedDir {
		logger.InfoKV(ctx, "Release is already active", "tag", tag)
		return nil
	}

	transient := s.layout.TransientLinkPath(tag)

	// A leftover transient link from a crashed run must not fail this one.
	if err := os.Remove(transient); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale transient link: %w", err)
	}

	if err := os.Symlink(installedDir, transient); err != nil {
		return fmt.Errorf("create transient link: %w", err)
	}

	if err := os.Rename(transient, linkPath); err != nil {
		_ = os.Remove(transient)
		return fmt.Errorf("rename link into place: %w", err)
	}

	logger.InfoKV(ctx, "Promoted release", "tag", tag, "path", installedDir)

	if hadOldTarget {
		s.collectGarbage(ctx, oldTarget, installedDir)
	}

	return nil
}

// readLinkTarget reads a symlink's target, resolving a relative target
// against the link's own directory. The second result is false when the link
// does not exist or path is not a symlink.
func readLinkTarget(path string) (string, bool) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", false
	}

	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}

	return target, true
}

// collectGarbage removes the superseded version directory.
//
// Removal only happens when the old target resolves to a real directory that
// differs from the new one, sits directly under the runtime directory and
// carries the versioned-install naming convention. A tampered link can
// therefore never make the updater delete anything outside the managed
// directory. Failures are logged and discarded; "already gone" is success.
func (s *Service) collectGarbage(ctx context.Context, oldTarget, newTarget string) {
	oldReal, err := filepath.EvalSymlinks(oldTarget)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.DebugKV(ctx, "Previous version is already gone", "path", oldTarget)
		} else {
			logger.WarnKV(ctx, "Could not resolve previous version", "path", oldTarget, "error", err)
		}

		return
	}

	newReal, err := filepath.EvalSymlinks(newTarget)
	if err != nil {
		logger.WarnKV(ctx, "Could not resolve new version", "path", newTarget, "error", err)
		return
	}

	if oldReal == newReal {
		return
	}

	if !s.isManagedInstallDir(oldReal) {
		logger.WarnKV(ctx, "Refusing to remove directory outside the managed layout", "path", oldReal)
		return
	}

	if s.helperRunning(ctx) {
		logger.InfoKV(ctx, "Helper is still running, keeping previous version", "path", oldReal)
		return
	}

	if err = os.RemoveAll(oldReal); err != nil {
		logger.ErrorKV(ctx, "Failed to remove previous version", "path", oldReal, "error", err)
		return
	}

	logger.InfoKV(ctx, "Removed previous version", "path", oldReal)
}

// isManagedInstallDir reports whether path is a versioned install directory
// directly under the runtime directory. The runtime directory is compared
// both literally and with its symlinks resolved, since path arrives here
// already canonicalized.
func (s *Service) isManagedInstallDir(path string) bool {
	if s.layout.IsInstallDir(path) {
		return true
	}

	rootReal, err := filepath.EvalSymlinks(s.layout.RuntimeDir())
	if err != nil {
		return false
	}

	return release.NewLayout(rootReal).IsInstallDir(path)
}
