package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/winestream-updater/internal/config"
	"github.com/oshokin/winestream-updater/internal/logger"
	"github.com/oshokin/winestream-updater/internal/service/updater"
	"github.com/oshokin/winestream-updater/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel overrides the default logging level.
	logLevel string

	// rootCmd represents the base command: bring the active helper version
	// up to date.
	rootCmd = &cobra.Command{
		Use:   "winestream-updater",
		Short: "Keep the winestreamproxy helper up to date",
		Long: "Fetch the latest winestreamproxy release, install it into a versioned " +
			"directory and atomically promote it to be the active version. Safe to run " +
			"concurrently from multiple processes.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			applyLogLevel()

			return updater.Run(ctx, &updater.Options{ConfigPath: configPath})
		},
	}
)

// Execute runs the winestream-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel applies the --log-level flag to the global logger.
func applyLogLevel() {
	if logLevel == "" {
		return
	}

	if lvl, ok := logger.ParseLogLevel(logLevel); ok {
		logger.SetLevel(lvl)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}
