// Package pathutil converts the absolute paths used internally into the
// project-relative paths shown to users.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/lib/point.rb", "/home/user/project") → "lib/point.rb"
//   - ToRelative("/other/location/file.rb", "/home/user/project") → "/other/location/file.rb" (outside root)
//   - ToRelative("lib/point.rb", "/home/user/project") → "lib/point.rb" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// e.g. different drives on Windows
		return absPath
	}

	// outside the root the absolute path is clearer
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}

	return filepath.ToSlash(relPath)
}
