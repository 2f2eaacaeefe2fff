package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [dir]", watchCmd.Use)
}

func TestWatchCmd_ScanOnlyImports(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { scanOnly = false }()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "etude.pdf"), []byte("%PDF-1.7 etude"), 0644))

	out, err := execute(t, "watch", dir, "--scan-only")

	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 scores")

	// The directory is remembered for next time.
	assert.Equal(t, dir, settingsService.ImportDir())
}

func TestWatchCmd_NoDirectoryConfigured(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { scanOnly = false }()

	_, err := execute(t, "watch", "--scan-only")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no import directory")
}
