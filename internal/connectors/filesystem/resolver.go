package filesystem

import "strings"

// ResolveLocalPath converts a file URI to a local path for importing.
// Handles file:// URIs and bare paths.
func ResolveLocalPath(uri string) string {
	// Strip file:// prefix for local paths
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	// Bare paths pass through unchanged
	return uri
}
