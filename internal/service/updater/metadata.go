package updater

import (
	"context"

	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/logger"
)

// latestRelease acquires the latest release metadata as a plain sequence of
// attempts:
//
//  1. a cache file younger than the TTL is parsed and returned without any
//     network traffic;
//  2. otherwise the latest-release endpoint is fetched, validated and the raw
//     document persisted;
//  3. a fetch or validation failure falls back to the cached document
//     regardless of its age;
//  4. only when no cached document exists either does the fetch error
//     propagate.
//
// Staleness is preferred over hard failure: API unavailability must never
// stop a previously known-good version from being used.
func (s *Service) latestRelease(ctx context.Context) (*release.Release, error) {
	if s.cache.FreshWithin(s.cfg.CacheTTL) {
		if rel, err := s.cachedRelease(); err == nil {
			logger.Info(ctx, "Using cached release info")
			return rel, nil
		}

		// A fresh but unreadable cache is not fatal, fetch instead.
		logger.Warn(ctx, "Cached release info is unreadable, fetching")
	}

	logger.Info(ctx, "Downloading the latest release info")

	rel, fetchErr := s.fetchAndCache(ctx)
	if fetchErr == nil {
		return rel, nil
	}

	logger.WarnKV(ctx, "Release info download failed, using cached release info",
		"error", fetchErr)

	rel, err := s.cachedRelease()
	if err != nil {
		// No usable fallback: surface the fetch failure, not the
		// cache miss.
		return nil, fetchErr
	}

	return rel, nil
}

// cachedRelease parses the cached metadata document regardless of its age.
func (s *Service) cachedRelease() (*release.Release, error) {
	data, err := s.cache.Read()
	if err != nil {
		return nil, err
	}

	return release.Parse(data)
}

// fetchAndCache downloads the latest-release document, validates its shape
// and persists the raw bytes. Invalid metadata is treated as a fetch failure
// and is never cached.
func (s *Service) fetchAndCache(ctx context.Context) (*release.Release, error) {
	body, err := s.client.Get(ctx, s.cfg.LatestReleaseURL())
	if err != nil {
		return nil, err
	}

	rel, err := release.Parse(body)
	if err != nil {
		return nil, err
	}

	if err = rel.Validate(s.cfg.AssetRegexp()); err != nil {
		return nil, err
	}

	if err = s.cache.WriteAtomic(body); err != nil {
		return nil, err
	}

	return rel, nil
}
