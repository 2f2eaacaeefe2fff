package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoreleaf/scoreleaf/internal/adapters/driven/storage/memory"
	"github.com/scoreleaf/scoreleaf/internal/core/services"
)

func newTestImporter(t *testing.T, dir string) (*Importer, *services.LibraryService) {
	t.Helper()
	library := services.NewLibraryService(memory.NewLibraryStore(), memory.NewFolderStore(), nil)
	return NewImporter(library, dir), library
}

func TestImporter_Scan(t *testing.T) {
	t.Run("imports PDFs from directory", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "sonata.pdf"), []byte("%PDF-1.7 one"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "etude.PDF"), []byte("%PDF-1.7 two"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("not a score"), 0644))

		importer, library := newTestImporter(t, tempDir)

		imported, err := importer.Scan(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, imported)

		docs, err := library.List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 2)
		for _, doc := range docs {
			assert.Equal(t, "application/pdf", doc.MediaType)
			assert.NotEmpty(t, doc.Data)
			assert.Positive(t, doc.LastModified)
		}
	})

	t.Run("imports from subdirectories", func(t *testing.T) {
		tempDir := t.TempDir()
		subDir := filepath.Join(tempDir, "bach")
		require.NoError(t, os.Mkdir(subDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(subDir, "prelude.pdf"), []byte("%PDF-1.7"), 0644))

		importer, library := newTestImporter(t, tempDir)

		imported, err := importer.Scan(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, imported)

		docs, err := library.List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "prelude.pdf", docs[0].Name)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		tempDir := t.TempDir()
		hiddenDir := filepath.Join(tempDir, ".trash")
		require.NoError(t, os.Mkdir(hiddenDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(hiddenDir, "deleted.pdf"), []byte("%PDF-1.7"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".partial.pdf"), []byte("%PDF-1.7"), 0644))

		importer, library := newTestImporter(t, tempDir)

		imported, err := importer.Scan(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, imported)

		docs, err := library.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("rescan skips documents already in the library", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "sonata.pdf"), []byte("%PDF-1.7"), 0644))

		importer, library := newTestImporter(t, tempDir)

		imported, err := importer.Scan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, imported)

		imported, err = importer.Scan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, imported)

		docs, err := library.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("empty directory imports nothing", func(t *testing.T) {
		importer, _ := newTestImporter(t, t.TempDir())

		imported, err := importer.Scan(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, imported)
	})

	t.Run("missing directory returns error", func(t *testing.T) {
		importer, _ := newTestImporter(t, "/nonexistent/scores")

		_, err := importer.Scan(context.Background())

		assert.Error(t, err)
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "sonata.pdf"), []byte("%PDF-1.7"), 0644))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		importer, _ := newTestImporter(t, tempDir)

		_, err := importer.Scan(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestImporter_HandleFsEvent(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		setupFile   bool
		setupDir    bool
		operation   fsnotify.Op
		wantHandled bool
	}{
		{
			name:        "create PDF event",
			fileName:    "new.pdf",
			setupFile:   true,
			operation:   fsnotify.Create,
			wantHandled: true,
		},
		{
			name:        "write PDF event",
			fileName:    "new.pdf",
			setupFile:   true,
			operation:   fsnotify.Write,
			wantHandled: true,
		},
		{
			name:        "uppercase extension",
			fileName:    "new.PDF",
			setupFile:   true,
			operation:   fsnotify.Create,
			wantHandled: true,
		},
		{
			name:        "combined write and chmod",
			fileName:    "new.pdf",
			setupFile:   true,
			operation:   fsnotify.Write | fsnotify.Chmod,
			wantHandled: true,
		},
		{
			name:      "remove event ignored",
			fileName:  "gone.pdf",
			operation: fsnotify.Remove,
		},
		{
			name:      "chmod-only event ignored",
			fileName:  "new.pdf",
			setupFile: true,
			operation: fsnotify.Chmod,
		},
		{
			name:      "non-PDF ignored",
			fileName:  "notes.txt",
			setupFile: true,
			operation: fsnotify.Create,
		},
		{
			name:      "hidden file ignored",
			fileName:  ".partial.pdf",
			setupFile: true,
			operation: fsnotify.Create,
		},
		{
			name:      "directory ignored",
			fileName:  "scores.pdf",
			setupDir:  true,
			operation: fsnotify.Create,
		},
		{
			name:      "vanished file ignored",
			fileName:  "gone.pdf",
			operation: fsnotify.Create,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			eventPath := filepath.Join(tempDir, tt.fileName)

			if tt.setupDir {
				require.NoError(t, os.Mkdir(eventPath, 0755))
			} else if tt.setupFile {
				require.NoError(t, os.WriteFile(eventPath, []byte("%PDF-1.7"), 0644))
			}

			importer, _ := newTestImporter(t, tempDir)

			got := importer.handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if tt.wantHandled {
				assert.Equal(t, eventPath, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("a.pdf"))
	assert.True(t, isPDF("a.PDF"))
	assert.True(t, isPDF("/path/to/score.Pdf"))
	assert.False(t, isPDF("a.txt"))
	assert.False(t, isPDF("pdf"))
	assert.False(t, isPDF(""))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".partial.pdf"))
	assert.True(t, isHidden(".trash"))
	assert.False(t, isHidden("sonata.pdf"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
	assert.False(t, isHidden(""))
}
