package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRead_NotFound verifies the sentinel error for a missing cache file.
func TestRead_NotFound(t *testing.T) {
	t.Parallel()

	cache := NewFileCache(filepath.Join(t.TempDir(), "latest.json"))

	_, err := cache.Read()
	require.ErrorIs(t, err, ErrNotFound)
}

// TestWriteAtomic_Roundtrip verifies content, permissions and directory creation.
func TestWriteAtomic_Roundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runtime", "latest.json")
	cache := NewFileCache(path)

	content := []byte(`{"tag_name":"v1.2.0"}`)
	require.NoError(t, cache.WriteAtomic(content))

	got, err := cache.Read()
	require.NoError(t, err)
	require.Equal(t, content, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

// TestWriteAtomic_ReplacesAndLeavesNoTemp ensures overwrites are clean.
func TestWriteAtomic_ReplacesAndLeavesNoTemp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache := NewFileCache(filepath.Join(dir, "latest.json"))

	require.NoError(t, cache.WriteAtomic([]byte("old")))
	require.NoError(t, cache.WriteAtomic([]byte("new")))

	got, err := cache.Read()
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)

	// Exactly one file remains, no temporary leftovers.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "latest.json", entries[0].Name())
}

// TestFreshWithin covers the TTL window including the clock-skew tolerance.
func TestFreshWithin(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "latest.json")
	cache := NewFileCache(path)

	// Missing file is never fresh.
	require.False(t, cache.FreshWithin(time.Hour))

	require.NoError(t, cache.WriteAtomic([]byte("{}")))
	require.True(t, cache.FreshWithin(time.Hour))

	// Aged beyond the window.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	require.False(t, cache.FreshWithin(time.Hour))

	// A future mtime within the window still counts as fresh.
	future := time.Now().Add(30 * time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))
	require.True(t, cache.FreshWithin(time.Hour))

	// A future mtime beyond the window does not.
	farFuture := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(path, farFuture, farFuture))
	require.False(t, cache.FreshWithin(time.Hour))
}
