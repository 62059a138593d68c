package updater

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/repository/metadata"
)

// TestLatestRelease_CacheHit verifies a fresh cache short-circuits the network.
func TestLatestRelease_CacheHit(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: errFetchFailed}
	service := newTestService(t, fetcher)

	require.NoError(t, service.cache.WriteAtomic(releaseJSON("v1.2.0", "https://updates.local/a.tar.gz")))

	rel, err := service.latestRelease(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.2.0", rel.TagName)
	require.Zero(t, fetcher.calls)
}

// TestLatestRelease_FetchesWhenStale verifies an aged cache triggers a fetch
// and the fresh document replaces the cached one.
func TestLatestRelease_FetchesWhenStale(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	service := newTestService(t, fetcher)

	require.NoError(t, service.cache.WriteAtomic(releaseJSON("v1.1.0", "https://updates.local/old.tar.gz")))
	expireCache(t, service)

	fresh := releaseJSON("v1.2.0", "https://updates.local/new.tar.gz")
	fetcher.responses = map[string][]byte{
		service.cfg.LatestReleaseURL(): fresh,
	}

	rel, err := service.latestRelease(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.2.0", rel.TagName)
	require.Equal(t, 1, fetcher.calls)

	cached, err := service.cache.Read()
	require.NoError(t, err)
	require.Equal(t, fresh, cached)
}

// TestLatestRelease_StaleFallback verifies a failed fetch falls back to the
// cached document regardless of its age.
func TestLatestRelease_StaleFallback(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: errFetchFailed}
	service := newTestService(t, fetcher)

	require.NoError(t, service.cache.WriteAtomic(releaseJSON("v1.1.0", "https://updates.local/old.tar.gz")))
	expireCache(t, service)

	rel, err := service.latestRelease(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.1.0", rel.TagName)
	require.Equal(t, 1, fetcher.calls)
}

// TestLatestRelease_HardFailure verifies the fetch error propagates when no
// cached document exists.
func TestLatestRelease_HardFailure(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: errFetchFailed}
	service := newTestService(t, fetcher)

	_, err := service.latestRelease(context.Background())
	require.ErrorIs(t, err, errFetchFailed)
}

// TestLatestRelease_InvalidMetadataNotCached verifies a document failing
// shape validation is treated as a fetch failure and never persisted.
func TestLatestRelease_InvalidMetadataNotCached(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	service := newTestService(t, fetcher)

	// Only a non-matching asset is offered.
	fetcher.responses = map[string][]byte{
		service.cfg.LatestReleaseURL(): []byte(`{
			"tag_name": "v1.2.0",
			"assets": [
				{"name": "winestreamproxy-1.2.0.i686.tar.gz", "browser_download_url": "https://updates.local/a.tar.gz"}
			]
		}`),
	}

	_, err := service.latestRelease(context.Background())
	require.ErrorIs(t, err, release.ErrNoMatchingAsset)

	_, err = service.cache.Read()
	require.ErrorIs(t, err, metadata.ErrNotFound)
}
