package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagemem "github.com/scoreleaf/scoreleaf/internal/adapters/driven/storage/memory"
)

func TestSettingsService_ZoomDefaultsToOne(t *testing.T) {
	svc := NewSettingsService(storagemem.NewConfigStore())

	assert.Equal(t, 1.0, svc.Zoom())
}

func TestSettingsService_ZoomRoundTrip(t *testing.T) {
	store := storagemem.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetZoom(1.75))
	assert.Equal(t, 1.75, svc.Zoom())
	assert.Equal(t, 1.75, store.GetFloat("viewer.zoom"))

	// Nonsense zoom values are ignored rather than persisted.
	require.NoError(t, svc.SetZoom(0))
	assert.Equal(t, 1.75, svc.Zoom())
}

func TestSettingsService_LastViewPerDocument(t *testing.T) {
	svc := NewSettingsService(storagemem.NewConfigStore())

	assert.Equal(t, 0, svc.LastView("sonata.pdf-1-2"))

	require.NoError(t, svc.SetLastView("sonata.pdf-1-2", 4))
	require.NoError(t, svc.SetLastView("etude.pdf-3-4", 2))

	assert.Equal(t, 4, svc.LastView("sonata.pdf-1-2"))
	assert.Equal(t, 2, svc.LastView("etude.pdf-3-4"))

	// View below 1 clears the stored position.
	require.NoError(t, svc.SetLastView("sonata.pdf-1-2", 0))
	assert.Equal(t, 0, svc.LastView("sonata.pdf-1-2"))
}

func TestSettingsService_ImportDir(t *testing.T) {
	svc := NewSettingsService(storagemem.NewConfigStore())

	assert.Equal(t, "", svc.ImportDir())
	require.NoError(t, svc.SetImportDir("/scores/incoming"))
	assert.Equal(t, "/scores/incoming", svc.ImportDir())
	require.NoError(t, svc.SetImportDir(""))
	assert.Equal(t, "", svc.ImportDir())
}

func TestSettingsService_NilStore(t *testing.T) {
	svc := NewSettingsService(nil)

	assert.Equal(t, 1.0, svc.Zoom())
	assert.Equal(t, 0, svc.LastView("x"))
	assert.Equal(t, "", svc.ImportDir())
	assert.NoError(t, svc.SetZoom(2))
	assert.NoError(t, svc.SetLastView("x", 1))
	assert.NoError(t, svc.SetImportDir("/tmp"))
}
