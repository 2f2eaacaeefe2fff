package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
	"github.com/scoreleaf/scoreleaf/internal/logger"
)

// Legacy key prefixes of the old flat key-value export. Everything the
// old format stored under other keys (zoom, positions) lives in the
// config file now and is not migrated here.
const (
	legacyMarkerPrefix     = "markers-"
	legacyAnnotationPrefix = "annotations-"
)

// ImportLegacy migrates an old flat key-value JSON export into the
// relational tables. The legacy file maps keys like "markers-<file>"
// and "annotations-<file>" to JSON arrays, either inline or doubly
// encoded as strings.
//
// Existing rows are never overwritten: the relational tables are
// authoritative once written. Unreadable entries are logged and
// skipped, never fatal. On success the legacy file is renamed with a
// .imported suffix so the migration runs once.
func (s *Store) ImportLegacy(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading legacy store: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parsing legacy store: %w", err)
	}

	markerStore := s.MarkerStore()
	annotationStore := s.AnnotationStore()

	for key, value := range entries {
		payload := unwrapLegacyValue(value)

		switch {
		case strings.HasPrefix(key, legacyMarkerPrefix):
			fileName := strings.TrimPrefix(key, legacyMarkerPrefix)
			if s.markerRowExists(ctx, fileName) {
				continue
			}
			markers, err := decodeMarkers(payload)
			if err != nil {
				logger.Warn("legacy import: skipping %s: %v", key, err)
				continue
			}
			set := &domain.MarkerSet{
				ID:           uuid.NewString(),
				FileName:     fileName,
				Markers:      markers,
				LastModified: time.Now().UTC(),
			}
			if err := markerStore.SaveMarkers(ctx, set); err != nil {
				logger.Warn("legacy import: saving %s: %v", key, err)
			}

		case strings.HasPrefix(key, legacyAnnotationPrefix):
			fileName := strings.TrimPrefix(key, legacyAnnotationPrefix)
			if s.annotationRowExists(ctx, fileName) {
				continue
			}
			annotations, err := decodeAnnotations(payload)
			if err != nil {
				logger.Warn("legacy import: skipping %s: %v", key, err)
				continue
			}
			set := &domain.AnnotationSet{
				ID:           uuid.NewString(),
				FileName:     fileName,
				Annotations:  annotations,
				LastModified: time.Now().UTC(),
			}
			if err := annotationStore.SaveAnnotations(ctx, set); err != nil {
				logger.Warn("legacy import: saving %s: %v", key, err)
			}
		}
	}

	if err := os.Rename(path, path+".imported"); err != nil {
		return fmt.Errorf("retiring legacy store: %w", err)
	}
	logger.Info("imported legacy store from %s", path)
	return nil
}

// unwrapLegacyValue handles the doubly-encoded form where the array is
// stored as a JSON string containing JSON.
func unwrapLegacyValue(value json.RawMessage) string {
	var inner string
	if err := json.Unmarshal(value, &inner); err == nil {
		return inner
	}
	return string(value)
}

func (s *Store) markerRowExists(ctx context.Context, fileName string) bool {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM marker_sets WHERE key = ?",
		domain.MarkerSetKey(fileName)).Scan(&count)
	return err == nil && count > 0
}

func (s *Store) annotationRowExists(ctx context.Context, fileName string) bool {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM annotation_sets WHERE key = ?",
		domain.AnnotationSetKey(fileName)).Scan(&count)
	return err == nil && count > 0
}
