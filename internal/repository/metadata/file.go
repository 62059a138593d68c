package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// cacheFilePermissions is owner read/write, group/other read.
	cacheFilePermissions = 0o644
	// cacheDirPermissions is applied when creating the runtime directory.
	cacheDirPermissions = 0o755
)

// ErrNotFound is returned when no cached metadata document exists yet.
var ErrNotFound = errors.New("cached metadata not found")

// FileCache persists the raw release metadata document on disk.
// The file's modification time doubles as the cache timestamp, so the cache
// survives process restarts and is shared by independent processes.
type FileCache struct {
	// path is the filesystem location of the cached document.
	path string
	// mu protects concurrent access from within one process.
	mu sync.Mutex
}

// NewFileCache creates a cache backed by the file at the provided path.
func NewFileCache(path string) *FileCache {
	return &FileCache{
		path: filepath.Clean(path),
	}
}

// Path returns the location of the cache file.
func (c *FileCache) Path() string {
	return c.path
}

// Read returns the raw cached document regardless of its age.
func (c *FileCache) Read() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	contents, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read metadata cache: %w", err)
	}

	return contents, nil
}

// FreshWithin reports whether a cached document exists and its age is below
// ttl. The age is the absolute distance between now and the file's mtime, so
// a timestamp in the future (clock rollback, restored backup) still counts as
// fresh instead of forcing a refetch on every run.
func (c *FileCache) FreshWithin(ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.path)
	if err != nil {
		return false
	}

	age := time.Since(info.ModTime())
	if age < 0 {
		age = -age
	}

	return age < ttl
}

// WriteAtomic replaces the cached document with content.
//
// The new content is written to a temporary file in the same directory (the
// final rename is only atomic within one filesystem), its permissions are set,
// and it is renamed onto the final path. Readers observe either the old or the
// new document in full, never a partial write. The temporary file is removed
// if anything fails before the rename.
func (c *FileCache) WriteAtomic(content []byte) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Dir(c.path)
	if err = os.MkdirAll(dir, cacheDirPermissions); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err = tmp.Chmod(cacheFilePermissions); err != nil {
		return fmt.Errorf("set cache permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}

	if err = os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename cache into place: %w", err)
	}

	return nil
}
