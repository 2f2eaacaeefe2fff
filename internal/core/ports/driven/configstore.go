package driven

// ConfigStore provides persistent key-value configuration.
// Keys use dot notation, e.g. "viewer.zoom".
type ConfigStore interface {
	// Get retrieves a raw configuration value.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 when absent.
	GetInt(key string) int

	// GetFloat retrieves a float value, 0 when absent.
	GetFloat(key string) float64

	// GetBool retrieves a boolean value, false when absent.
	GetBool(key string) bool

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Delete removes a key and persists immediately.
	Delete(key string) error
}
