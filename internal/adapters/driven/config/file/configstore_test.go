package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".scoreleaf", "config.toml"), store.Path())

	// Cleanup
	_ = os.Remove(store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("viewer.zoom", 1.5))
	require.NoError(t, store.Set("viewer.import_dir", "/scores"))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, 1.5, store.GetFloat("viewer.zoom"))
	assert.Equal(t, "/scores", store.GetString("viewer.import_dir"))
	assert.True(t, store.GetBool("verbose"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("viewer.zoom", 2.0))
	require.NoError(t, store.Set("position.sonata.pdf-2048-1700000000000", int64(4)))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 2.0, reloaded.GetFloat("viewer.zoom"))
	assert.Equal(t, 4, reloaded.GetInt("position.sonata.pdf-2048-1700000000000"))
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("viewer.zoom", 1.5))
	require.NoError(t, store.Delete("viewer.zoom"))

	_, ok := store.Get("viewer.zoom")
	assert.False(t, ok)

	// The deletion is persisted.
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok = reloaded.Get("viewer.zoom")
	assert.False(t, ok)
}

func TestConfigStore_IntCoercion(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// TOML round-trips integers as int64.
	require.NoError(t, store.Set("position.a-1-2", 3))
	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.GetInt("position.a-1-2"))
	assert.Equal(t, 3.0, reloaded.GetFloat("position.a-1-2"))
}

func TestConfigStore_CorruptFileFailsLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}
