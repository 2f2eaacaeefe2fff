// Scoreleaf is a sheet-music reader built around half-page views.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scoreleaf/scoreleaf/internal/adapters/driven/config/file"
	"github.com/scoreleaf/scoreleaf/internal/adapters/driven/raster/pdfimage"
	storagemem "github.com/scoreleaf/scoreleaf/internal/adapters/driven/storage/memory"
	"github.com/scoreleaf/scoreleaf/internal/adapters/driven/storage/sqlite"
	"github.com/scoreleaf/scoreleaf/internal/adapters/driving/cli"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
	"github.com/scoreleaf/scoreleaf/internal/core/services"
	"github.com/scoreleaf/scoreleaf/internal/logger"
)

// legacyStoreFile is the old single-file key-value export, imported
// into SQLite once if present.
const legacyStoreFile = "store.json"

func main() {
	cli.SetInitializer(initServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initServices wires the adapters and services once flags are parsed.
// SQLite failures degrade to in-memory stores so the viewer still
// works; changes then do not survive the session.
func initServices(dataDir string) error {
	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	var (
		libraryStore    driven.LibraryStore
		folderStore     driven.FolderStore
		markerStore     driven.MarkerStore
		annotationStore driven.AnnotationStore
	)

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("SQLite unavailable, falling back to in-memory storage: %v", err)
		libraryStore = storagemem.NewLibraryStore()
		folderStore = storagemem.NewFolderStore()
		markerStore = storagemem.NewMarkerStore()
		annotationStore = storagemem.NewAnnotationStore()
	} else {
		libraryStore = store.LibraryStore()
		folderStore = store.FolderStore()
		markerStore = store.MarkerStore()
		annotationStore = store.AnnotationStore()

		legacyPath := filepath.Join(filepath.Dir(store.Path()), legacyStoreFile)
		if err := store.ImportLegacy(context.Background(), legacyPath); err != nil {
			logger.Warn("Legacy import failed: %v", err)
		}
	}

	rasterizer := pdfimage.NewRasterizer()

	library := services.NewLibraryService(libraryStore, folderStore, rasterizer)
	markers := services.NewMarkerService(markerStore)
	annotations := services.NewAnnotationService(annotationStore)
	settings := services.NewSettingsService(configStore)
	compositor := services.NewCompositor(rasterizer)
	viewer := services.NewViewerSession(library, markers, annotations, compositor, settings)

	cli.SetServices(library, markers, annotations, settings, viewer)
	return nil
}
