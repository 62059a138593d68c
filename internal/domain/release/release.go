package release

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrMissingTag is returned when the metadata document carries no tag.
	ErrMissingTag = errors.New("release has no tag name")
	// ErrNoMatchingAsset is returned when no asset name matches the pattern.
	ErrNoMatchingAsset = errors.New("could not find download url in release info")
)

// Asset is one downloadable artifact attached to a release.
type Asset struct {
	// Name is the artifact filename as published.
	Name string `json:"name"`
	// BrowserDownloadURL is where the artifact bytes are served from.
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Release is the metadata document published for a single release.
// Assets keep their document order; asset selection is first-match.
type Release struct {
	// TagName is the identifier distinguishing this release from others.
	TagName string `json:"tag_name"`
	// Assets are the downloadable artifacts, in document order.
	Assets []Asset `json:"assets"`
}

// Parse decodes a raw metadata document.
// It performs no shape validation beyond JSON syntax; see Validate.
func Parse(data []byte) (*Release, error) {
	var r Release
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode release info: %w", err)
	}

	return &r, nil
}

// Validate checks that the release is usable: a non-empty tag and at least one
// asset matching the expected archive name pattern. Invalid metadata must not
// be cached or acted upon.
func (r *Release) Validate(pattern *regexp.Regexp) error {
	if r.TagName == "" {
		return ErrMissingTag
	}

	if _, err := r.DownloadURL(pattern); err != nil {
		return err
	}

	return nil
}

// DownloadURL returns the download URL of the first asset whose name matches
// the pattern, scanning assets in document order. The default pattern is
// anchored, so a match covers the whole asset name.
func (r *Release) DownloadURL(pattern *regexp.Regexp) (string, error) {
	for _, asset := range r.Assets {
		if pattern.MatchString(asset.Name) {
			return asset.BrowserDownloadURL, nil
		}
	}

	return "", ErrNoMatchingAsset
}
