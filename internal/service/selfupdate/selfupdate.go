package selfupdate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/winestream-updater/internal/config"
	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/github"
	"github.com/oshokin/winestream-updater/internal/logger"
	"github.com/oshokin/winestream-updater/internal/version"
)

// binaryMode is applied to the replaced executable.
const binaryMode = 0o755

// errNoBinaryAsset is returned when the release carries no binary for the
// current platform.
var errNoBinaryAsset = errors.New("no updater binary for this platform in release")

// Options are inputs accepted by the self-update entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
}

// Fetcher fetches a URL and returns the response body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Run replaces the running winestream-updater binary with the latest
// published release, if the published tag differs from the built-in version.
// The replacement itself is atomic: go-update writes the new binary next to
// the current one and renames it into place, rolling back on failure.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "self-update")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client := github.NewClient(cfg.Timeout, "winestream-updater/"+version.Short())

	return run(ctx, cfg, client)
}

// run is the testable core of Run.
func run(ctx context.Context, cfg *config.Config, client Fetcher) error {
	logger.Info(ctx, "Checking for a newer updater release")

	body, err := client.Get(ctx, cfg.LatestSelfUpdateURL())
	if err != nil {
		return fmt.Errorf("fetch updater release info: %w", err)
	}

	rel, err := release.Parse(body)
	if err != nil {
		return err
	}

	if rel.TagName == "" {
		return release.ErrMissingTag
	}

	if isCurrent(rel.TagName) {
		logger.InfoKV(ctx, "Updater is already up to date", "version", version.Short())
		return nil
	}

	downloadURL, err := binaryAssetURL(rel)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Downloading updater binary",
		"tag", rel.TagName, "url", downloadURL)

	data, err := client.Get(ctx, downloadURL)
	if err != nil {
		return fmt.Errorf("download updater binary: %w", err)
	}

	options := goupdate.Options{
		TargetMode: binaryMode,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply updater binary: %w", err)
	}

	logger.InfoKV(ctx, "Updater replaced", "from", version.Short(), "to", rel.TagName)

	return nil
}

// isCurrent reports whether the published tag matches the running version,
// tolerating a leading "v" in the tag.
func isCurrent(tag string) bool {
	return strings.TrimPrefix(tag, "v") == strings.TrimPrefix(version.Short(), "v")
}

// AssetName returns the platform-qualified binary asset name.
func AssetName() string {
	name := fmt.Sprintf("winestream-updater-%s-%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	return name
}

// binaryAssetURL finds the download URL of this platform's binary asset.
func binaryAssetURL(rel *release.Release) (string, error) {
	want := AssetName()

	for _, asset := range rel.Assets {
		if asset.Name == want {
			return asset.BrowserDownloadURL, nil
		}
	}

	return "", fmt.Errorf("%w: %s", errNoBinaryAsset, want)
}
