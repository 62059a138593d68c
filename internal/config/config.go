package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config holds the settings driving the winestreamproxy update pipeline.
type Config struct {
	// ReleasesURL is the release-hosting API collection URL.
	// The latest release is fetched from "<ReleasesURL>/latest".
	ReleasesURL string `yaml:"releases_url"`
	// RuntimeRoot is the directory holding the cache file, the versioned
	// install directories and the active-version symlink.
	RuntimeRoot string `yaml:"runtime_root"`
	// CacheTTL is how long the cached release metadata stays fresh.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// AssetPattern is the regular expression selecting the downloadable
	// archive among the release assets.
	AssetPattern string `yaml:"asset_pattern"`
	// PipeName is the logical channel name the helper listens on.
	PipeName string `yaml:"pipe_name"`
	// SelfUpdateURL is the release collection publishing winestream-updater
	// itself, used by the self-update command.
	SelfUpdateURL string `yaml:"self_update_url"`
	// Timeout is the duration for network operations.
	Timeout time.Duration `yaml:"timeout"`

	// assetRegexp is the compiled AssetPattern, populated by Validate.
	assetRegexp *regexp.Regexp
}

const (
	// DefaultConfigFilename is the default filename for updater settings.
	DefaultConfigFilename = "winestream-updater.yaml"

	// DefaultReleasesURL points at the upstream winestreamproxy releases.
	DefaultReleasesURL = "https://api.github.com/repos/openglfreak/winestreamproxy/releases"

	// DefaultCacheTTL is how long cached release metadata is trusted
	// before a fresh fetch is attempted.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultAssetPattern matches the x86_64 tarball among release assets.
	DefaultAssetPattern = `^winestreamproxy-.*\.x86_64\.tar(?:\.[^.]+)?$`

	// DefaultPipeName is the named pipe the helper bridges to a socket.
	DefaultPipeName = "discord-ipc-0"

	// DefaultSelfUpdateURL publishes winestream-updater's own releases.
	DefaultSelfUpdateURL = "https://api.github.com/repos/oshokin/winestream-updater/releases"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// DefaultRuntimeRoot returns the runtime directory used when none is configured.
// It lives under the XDG data home so installed versions survive reboots.
func DefaultRuntimeRoot() string {
	return filepath.Join(xdg.DataHome, "winestream-updater", "winestreamproxy")
}

// Default returns a configuration with all fields set to their defaults.
func Default() *Config {
	cfg := &Config{
		ReleasesURL:  DefaultReleasesURL,
		RuntimeRoot:  DefaultRuntimeRoot(),
		CacheTTL:     DefaultCacheTTL,
		AssetPattern: DefaultAssetPattern,
		PipeName:     DefaultPipeName,
		Timeout:      DefaultTimeout,
	}

	// Defaults are constants, so compilation cannot fail here.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: defaults are returned so the updater works
// out of the box.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings, applies defaults for unset fields and
// compiles the asset pattern.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ReleasesURL == "" {
		cfg.ReleasesURL = DefaultReleasesURL
	}

	if _, err := url.ParseRequestURI(cfg.ReleasesURL); err != nil {
		return fmt.Errorf("invalid releases URL: %w", err)
	}

	if cfg.RuntimeRoot == "" {
		cfg.RuntimeRoot = DefaultRuntimeRoot()
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	if cfg.AssetPattern == "" {
		cfg.AssetPattern = DefaultAssetPattern
	}

	compiled, err := regexp.Compile(cfg.AssetPattern)
	if err != nil {
		return fmt.Errorf("invalid asset pattern: %w", err)
	}

	cfg.assetRegexp = compiled

	if cfg.PipeName == "" {
		cfg.PipeName = DefaultPipeName
	}

	if cfg.SelfUpdateURL == "" {
		cfg.SelfUpdateURL = DefaultSelfUpdateURL
	}

	if _, err := url.ParseRequestURI(cfg.SelfUpdateURL); err != nil {
		return fmt.Errorf("invalid self-update URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}

// AssetRegexp returns the compiled asset pattern.
// Validate must have been called first; Load and Default take care of that.
func (c *Config) AssetRegexp() *regexp.Regexp {
	if c.assetRegexp == nil {
		c.assetRegexp = regexp.MustCompile(c.AssetPattern)
	}

	return c.assetRegexp
}

// LatestReleaseURL returns the endpoint serving the most recent release.
func (c *Config) LatestReleaseURL() string {
	return c.ReleasesURL + "/latest"
}

// LatestSelfUpdateURL returns the endpoint serving the updater's own most
// recent release.
func (c *Config) LatestSelfUpdateURL() string {
	return c.SelfUpdateURL + "/latest"
}
