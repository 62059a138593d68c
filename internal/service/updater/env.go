package updater

import "path/filepath"

// Environment variable names consumed by the launched helper and its client.
const (
	// EnvPipeName is the logical channel name the helper listens on.
	EnvPipeName = "WINESTREAMPROXY_PIPE_NAME"
	// EnvSocketPath is where the helper exposes its unix socket.
	EnvSocketPath = "WINESTREAMPROXY_SOCKET_PATH"
	// EnvSystem marks the helper as system-managed.
	EnvSystem = "WINESTREAMPROXY_SYSTEM"
)

// Environment returns the variables downstream consumers need to locate the
// active installation's listening endpoint inside the caller's runtime
// directory. Pure mapping, no I/O.
func (s *Service) Environment(runtimeDir string) map[string]string {
	return map[string]string{
		EnvPipeName:   s.cfg.PipeName,
		EnvSocketPath: filepath.Join(runtimeDir, s.cfg.PipeName),
		EnvSystem:     "true",
	}
}
