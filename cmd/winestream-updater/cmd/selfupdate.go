package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/winestream-updater/internal/service/selfupdate"
)

// selfUpdateCmd replaces the running updater binary with the latest release.
var selfUpdateCmd = &cobra.Command{
	Use:   "self-update",
	Short: "Update winestream-updater itself to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		applyLogLevel()

		return selfupdate.Run(ctx, &selfupdate.Options{ConfigPath: configPath})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(selfUpdateCmd)
}
