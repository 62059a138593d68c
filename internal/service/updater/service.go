package updater

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/winestream-updater/internal/config"
	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/github"
	"github.com/oshokin/winestream-updater/internal/logger"
	"github.com/oshokin/winestream-updater/internal/repository/metadata"
	"github.com/oshokin/winestream-updater/internal/version"
)

// errReleaseNotSet is returned when a nil release is passed in.
var errReleaseNotSet = errors.New("release is not set")

// Fetcher fetches a URL and returns the response body.
// It is satisfied by the github client and by test doubles.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Options are inputs accepted by the updater entry point.
type Options struct {
	// ConfigPath is the optional path to settings YAML file.
	ConfigPath string
}

// Service implements the release-acquisition-and-deployment pipeline.
//
// All coordination between concurrently running processes happens through
// filesystem rename and symlink atomicity; the service keeps no shared state
// beyond the paths derived from the runtime root.
type Service struct {
	cfg    *config.Config
	layout release.Layout
	cache  *metadata.FileCache
	client Fetcher
}

// NewService builds a service from validated configuration and a fetcher.
func NewService(cfg *config.Config, client Fetcher) (*Service, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	layout := release.NewLayout(cfg.RuntimeRoot)

	return &Service{
		cfg:    cfg,
		layout: layout,
		cache:  metadata.NewFileCache(layout.MetadataPath()),
		client: client,
	}, nil
}

// Run executes the install pipeline and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "winestream-updater")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client := github.NewClient(cfg.Timeout, "winestream-updater/"+version.Short())

	service, err := NewService(cfg, client)
	if err != nil {
		return err
	}

	installedDir, err := service.Install(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Install failed", "error", err)
		return err
	}

	logger.InfoKV(ctx, "Active version is up to date",
		"path", installedDir, "link", service.layout.ActiveLinkPath())

	return nil
}

// Install brings the active version up to date:
// acquire the latest release metadata, make sure the version is installed on
// disk and promote it to be the active one. It returns the installed
// directory path. Callers see either a fully installed and promoted version
// or an error naming the stage that failed.
func (s *Service) Install(ctx context.Context) (string, error) {
	logger.Info(ctx, "Acquiring the latest release metadata")

	rel, err := s.latestRelease(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire release metadata: %w", err)
	}

	installedDir, err := s.EnsureInstalled(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("install release %s: %w", rel.TagName, err)
	}

	if err = s.promote(ctx, installedDir, rel.TagName); err != nil {
		return "", fmt.Errorf("promote release %s: %w", rel.TagName, err)
	}

	return installedDir, nil
}

// ExecutablePath returns the helper binary path reached via the active link.
func (s *Service) ExecutablePath() string {
	return s.layout.ExecutablePath()
}

// WrapperPath returns the launch wrapper path reached via the active link.
func (s *Service) WrapperPath() string {
	return s.layout.WrapperPath()
}
