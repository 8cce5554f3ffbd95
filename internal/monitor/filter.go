package monitor

import (
	"path/filepath"
	"sort"
	"strings"
)

// allowedExtensions is the image extension allow-list applied before any file
// I/O happens for an event.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// Allowed reports whether the path carries a supported image extension.
// The check is case-insensitive and never touches the filesystem.
func Allowed(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := allowedExtensions[ext]
	return ok
}

// AllowedExtensions returns the sorted allow-list for display purposes.
func AllowedExtensions() []string {
	out := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
