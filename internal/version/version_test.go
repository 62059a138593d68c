package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFull verifies the version string contains all build metadata fields.
func TestFull(t *testing.T) {
	t.Parallel()

	full := Full()
	require.Contains(t, full, "version: "+Short())
	require.Contains(t, full, "commit: ")
	require.Contains(t, full, "built at: ")
	require.Equal(t, 2, strings.Count(full, ","))
}
