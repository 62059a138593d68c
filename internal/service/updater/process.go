package updater

import (
	"context"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/winestream-updater/internal/domain/release"
	"github.com/oshokin/winestream-updater/internal/logger"
)

// helperRunning reports whether a helper process appears to be running.
//
// Garbage collection skips the superseded version while the helper is alive:
// deleting the directory its binary is mapped from is observable through
// Wine. A failed process scan counts as "not running"; garbage collection is
// best effort either way.
func (s *Service) helperRunning(ctx context.Context) bool {
	processes, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Could not list processes", "error", err)
		return false
	}

	for _, process := range processes {
		if process.Executable() == release.HelperExecutableName {
			return true
		}
	}

	return false
}
