package updater

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnvironment verifies the discovery variables handed to consumers.
func TestEnvironment(t *testing.T) {
	t.Parallel()

	service := newTestService(t, &fakeFetcher{})

	env := service.Environment("/run/user/1000")
	require.Equal(t, map[string]string{
		EnvPipeName:   "discord-ipc-0",
		EnvSocketPath: "/run/user/1000/discord-ipc-0",
		EnvSystem:     "true",
	}, env)
}

// TestEnvironment_CustomPipeName verifies the pipe name follows configuration.
func TestEnvironment_CustomPipeName(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	service := newTestService(t, fetcher)
	service.cfg.PipeName = "custom-pipe-1"

	env := service.Environment("/run/user/1000")
	require.Equal(t, "custom-pipe-1", env[EnvPipeName])
	require.Equal(t, "/run/user/1000/custom-pipe-1", env[EnvSocketPath])
}
