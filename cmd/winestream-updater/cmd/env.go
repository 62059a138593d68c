package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oshokin/winestream-updater/internal/config"
	"github.com/oshokin/winestream-updater/internal/github"
	"github.com/oshokin/winestream-updater/internal/service/updater"
	"github.com/oshokin/winestream-updater/internal/version"
)

// envCmd prints the environment variables consumers need to reach the active
// helper's listening endpoint.
var envCmd = &cobra.Command{
	Use:   "env [runtime-dir]",
	Short: "Print the helper discovery environment variables",
	Long: "Print the environment variables the launched helper and its client need " +
		"to find each other. The runtime directory defaults to $XDG_RUNTIME_DIR.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if len(args) > 0 {
			runtimeDir = args[0]
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		client := github.NewClient(cfg.Timeout, "winestream-updater/"+version.Short())

		service, err := updater.NewService(cfg, client)
		if err != nil {
			return err
		}

		env := service.Environment(runtimeDir)

		names := make([]string, 0, len(env))
		for name := range env {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, env[name])
		}

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(envCmd)
}
