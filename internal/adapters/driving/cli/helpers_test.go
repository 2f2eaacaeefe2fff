package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	rastermem "github.com/scoreleaf/scoreleaf/internal/adapters/driven/raster/memory"
	storagemem "github.com/scoreleaf/scoreleaf/internal/adapters/driven/storage/memory"
	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/services"
)

// testKey is the composite key of the fixture score installed by
// setupTestServices.
const testKey = "sonata.pdf-2048-1700000000000"

// setupTestServices wires the commands to in-memory services holding
// one fixture score. The returned cleanup detaches everything again.
func setupTestServices(t *testing.T) func() {
	t.Helper()
	_, cleanup := setupTestServicesWithRasterizer(t)
	return cleanup
}

// setupTestServicesWithRasterizer additionally exposes the fake
// rasterizer so tests can inject page failures.
func setupTestServicesWithRasterizer(t *testing.T) (*rastermem.Rasterizer, func()) {
	t.Helper()

	rasterizer := rastermem.NewRasterizer()
	rasterizer.Pages = 3

	library := services.NewLibraryService(storagemem.NewLibraryStore(), storagemem.NewFolderStore(), rasterizer)
	markers := services.NewMarkerService(storagemem.NewMarkerStore())
	annotations := services.NewAnnotationService(storagemem.NewAnnotationStore())
	settings := services.NewSettingsService(storagemem.NewConfigStore())
	compositor := services.NewCompositor(rasterizer)
	viewer := services.NewViewerSession(library, markers, annotations, compositor, settings)

	_, err := library.Add(context.Background(), domain.Document{
		Name:         "sonata.pdf",
		Size:         2048,
		MediaType:    "application/pdf",
		Data:         []byte("%PDF-1.7 fixture"),
		LastModified: 1700000000000,
	}, nil)
	require.NoError(t, err)

	SetServices(library, markers, annotations, settings, viewer)

	return rasterizer, func() {
		SetServices(nil, nil, nil, nil, nil)
	}
}

// execute runs the root command with the given args and returns its
// combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
