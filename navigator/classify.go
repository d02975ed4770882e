package navigator

import (
	"path/filepath"
	"strings"
)

// imageTypes is the displayable image allow-list keyed by lowercased extension
var imageTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// extOf returns the lowercased extension of path without the leading dot
func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// IsImage reports whether path has a displayable image extension.
// Matching is case-insensitive.
func IsImage(path string) bool {
	_, ok := imageTypes[extOf(path)]
	return ok
}

// ContentType returns the image content type for path, or false when the
// extension is not on the allow-list
func ContentType(path string) (string, bool) {
	ct, ok := imageTypes[extOf(path)]
	return ct, ok
}
