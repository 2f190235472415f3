// Package testutil provides utilities for testing clusterfetch in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// EnvVars lists every environment variable clusterfetch reads. SetupTestEnv
// clears them so a developer's shell settings never leak into tests.
var EnvVars = []string{
	"CLUSTERFETCH_HOME",
	"CLUSTERFETCH_STORE_BIN_DIR",
	"CLUSTERFETCH_OGMIOS_HOME",
	"CLUSTERFETCH_KUPO_HOME",
	"CLUSTERFETCH_NODE_VERSION",
	"CLUSTERFETCH_NODE_URL",
	"CLUSTERFETCH_YACI_STORE_VERSION",
	"CLUSTERFETCH_YACI_STORE_URL",
	"CLUSTERFETCH_OGMIOS_VERSION",
	"CLUSTERFETCH_OGMIOS_URL",
	"CLUSTERFETCH_KUPO_VERSION",
	"CLUSTERFETCH_KUPO_URL",
}

// SetupTestEnv creates an isolated cluster home for a test and points
// CLUSTERFETCH_HOME at it. The returned directory is removed by t.TempDir().
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	home := filepath.Join(tmpDir, "home")

	for _, name := range EnvVars {
		t.Setenv(name, "")
	}
	t.Setenv("CLUSTERFETCH_HOME", home)

	if err := os.MkdirAll(home, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", home, err)
	}

	return home
}
