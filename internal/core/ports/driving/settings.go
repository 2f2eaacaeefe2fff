package driving

// SettingsService exposes persisted viewer preferences.
type SettingsService interface {
	// Zoom returns the render scale, defaulting to 1.0.
	Zoom() float64

	// SetZoom persists the render scale.
	SetZoom(zoom float64) error

	// LastView returns the saved view position for a document key,
	// 0 when none was saved.
	LastView(docKey string) int

	// SetLastView persists the view position for a document key.
	SetLastView(docKey string, view int) error

	// ImportDir returns the auto-import watch directory, "" when unset.
	ImportDir() string

	// SetImportDir persists the auto-import watch directory.
	SetImportDir(dir string) error
}
