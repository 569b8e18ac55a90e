package file

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with home, "~user" forms are left untouched.
// The rest of path is kept as typed, a trailing separator included.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return strings.TrimRight(home, "/"+string(filepath.Separator)) + path[1:]
	}
	return path
}

// HasTrailingSeparator reports whether path literally ends with a separator,
// "/" is accepted on every platform.
func HasTrailingSeparator(path string) bool {
	return strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/")
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsRegular reports whether path exists and is a regular file.
func IsRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
