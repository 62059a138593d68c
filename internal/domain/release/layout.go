package release

import (
	"path/filepath"
	"strings"
)

const (
	// metadataFilename is the cached raw release metadata document.
	metadataFilename = "latest.json"
	// activeLinkName is the symlink resolving to the active version.
	activeLinkName = "latest"
	// installPrefix prefixes every versioned install directory name.
	installPrefix = "extracted."
	// wrapperScript launches the helper with its environment set up.
	wrapperScript = "wrapper.sh"
)

// HelperExecutableName is the helper binary inside an installed version.
const HelperExecutableName = "winestreamproxy.exe.so"

// Layout derives every on-disk path from a single runtime root.
// It is an immutable value constructed once at startup and passed explicitly;
// all methods are pure.
type Layout struct {
	root string
}

// NewLayout builds a layout rooted at the provided runtime directory.
func NewLayout(runtimeRoot string) Layout {
	return Layout{root: filepath.Clean(runtimeRoot)}
}

// RuntimeDir returns the directory all managed paths live under.
func (l Layout) RuntimeDir() string {
	return l.root
}

// MetadataPath returns the path of the cached release metadata file.
func (l Layout) MetadataPath() string {
	return filepath.Join(l.root, metadataFilename)
}

// ActiveLinkPath returns the canonical path of the active-version symlink.
func (l Layout) ActiveLinkPath() string {
	return filepath.Join(l.root, activeLinkName)
}

// TransientLinkPath returns the tag-qualified name used while atomically
// repointing the active link. It must not persist after a promotion.
func (l Layout) TransientLinkPath(tag string) string {
	return l.ActiveLinkPath() + "." + tag
}

// InstallDir returns the versioned install directory for a tag.
func (l Layout) InstallDir(tag string) string {
	return filepath.Join(l.root, installPrefix+tag)
}

// IsInstallDir reports whether path names a versioned install directory
// directly under the runtime root. Garbage collection refuses to touch
// anything this returns false for.
func (l Layout) IsInstallDir(path string) bool {
	if filepath.Dir(path) != l.root {
		return false
	}

	base := filepath.Base(path)

	return strings.HasPrefix(base, installPrefix) && base != installPrefix
}

// ExecutablePath returns the helper binary path under the active link.
func (l Layout) ExecutablePath() string {
	return filepath.Join(l.ActiveLinkPath(), HelperExecutableName)
}

// WrapperPath returns the launch wrapper path under the active link.
func (l Layout) WrapperPath() string {
	return filepath.Join(l.ActiveLinkPath(), wrapperScript)
}
