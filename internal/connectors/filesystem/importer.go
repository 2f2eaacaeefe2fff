package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
	"github.com/scoreleaf/scoreleaf/internal/logger"
)

// settleDelay gives a copying process time to finish writing before we
// read a freshly created file.
const settleDelay = 200 * time.Millisecond

// Importer feeds PDF files from a watched directory into the library.
// Files already present are picked up by Scan; Watch ingests files as
// they appear.
type Importer struct {
	library  driving.LibraryService
	rootPath string
}

// NewImporter creates an importer over the given directory.
func NewImporter(library driving.LibraryService, rootPath string) *Importer {
	return &Importer{
		library:  library,
		rootPath: rootPath,
	}
}

// Scan walks the directory tree and imports every PDF found. Files
// whose composite key already exists in the library are skipped.
// Returns the number of documents imported.
func (i *Importer) Scan(ctx context.Context) (int, error) {
	imported := 0

	err := filepath.WalkDir(i.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			// Skip hidden directories entirely
			if isHidden(d.Name()) && path != i.rootPath {
				return fs.SkipDir
			}
			return nil
		}

		if !isPDF(path) || isHidden(d.Name()) {
			return nil
		}

		switch err := i.importFile(ctx, path); {
		case err == nil:
			imported++
		case errors.Is(err, domain.ErrAlreadyExists):
			logger.Debug("Already in library, skipping: %s", path)
		default:
			logger.Warn("Failed to import %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		return imported, err
	}

	logger.Info("Scan of %s complete: %d imported", i.rootPath, imported)
	return imported, nil
}

// Watch blocks, importing PDFs as they are created or written in the
// directory. Returns when the context is cancelled.
func (i *Importer) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(i.rootPath); err != nil {
		return err
	}

	logger.Info("Watching %s for new scores", i.rootPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := i.handleFsEvent(event)
			if path == "" {
				continue
			}

			// Let the writer finish before reading
			time.Sleep(settleDelay)

			switch err := i.importFile(ctx, path); {
			case err == nil:
				logger.Info("Imported %s", path)
			case errors.Is(err, domain.ErrAlreadyExists):
				logger.Debug("Already in library: %s", path)
			default:
				logger.Warn("Failed to import %s: %v", path, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the path to import for a relevant event, or ""
// when the event should be ignored. Only file creations and writes of
// visible PDFs are relevant.
func (i *Importer) handleFsEvent(event fsnotify.Event) string {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return ""
	}

	name := filepath.Base(event.Name)
	if isHidden(name) || !isPDF(event.Name) {
		return ""
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}

	return event.Name
}

// importFile reads a file and adds it to the library.
func (i *Importer) importFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc := domain.Document{
		Name:         filepath.Base(path),
		Size:         info.Size(),
		MediaType:    "application/pdf",
		Data:         data,
		LastModified: info.ModTime().UnixMilli(),
	}

	_, err = i.library.Add(ctx, doc, nil)
	return err
}

// isPDF reports whether the path has a .pdf extension, case-insensitive.
func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// isHidden reports whether the name starts with a dot. The special
// entries "." and ".." are not considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
