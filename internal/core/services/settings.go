package services

import (
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driven"
	"github.com/scoreleaf/scoreleaf/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for viewer preferences.
const (
	keyZoom      = "viewer.zoom"
	keyImportDir = "viewer.import_dir"

	// Per-document view positions are stored under "position.<docKey>".
	keyPositionPrefix = "position."
)

// SettingsService persists viewer preferences in the config store.
type SettingsService struct {
	config driven.ConfigStore
}

// NewSettingsService creates a settings service.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{config: config}
}

// Zoom returns the render scale, defaulting to 1.0.
func (s *SettingsService) Zoom() float64 {
	if s.config == nil {
		return 1.0
	}
	zoom := s.config.GetFloat(keyZoom)
	if zoom <= 0 {
		return 1.0
	}
	return zoom
}

// SetZoom persists the render scale.
func (s *SettingsService) SetZoom(zoom float64) error {
	if s.config == nil || zoom <= 0 {
		return nil
	}
	return s.config.Set(keyZoom, zoom)
}

// LastView returns the saved position for a document key, 0 when none.
func (s *SettingsService) LastView(docKey string) int {
	if s.config == nil {
		return 0
	}
	return s.config.GetInt(keyPositionPrefix + docKey)
}

// SetLastView persists the position for a document key.
func (s *SettingsService) SetLastView(docKey string, view int) error {
	if s.config == nil {
		return nil
	}
	if view < 1 {
		return s.config.Delete(keyPositionPrefix + docKey)
	}
	return s.config.Set(keyPositionPrefix+docKey, view)
}

// ImportDir returns the auto-import watch directory, "" when unset.
func (s *SettingsService) ImportDir() string {
	if s.config == nil {
		return ""
	}
	return s.config.GetString(keyImportDir)
}

// SetImportDir persists the auto-import watch directory.
func (s *SettingsService) SetImportDir(dir string) error {
	if s.config == nil {
		return nil
	}
	if dir == "" {
		return s.config.Delete(keyImportDir)
	}
	return s.config.Set(keyImportDir, dir)
}
