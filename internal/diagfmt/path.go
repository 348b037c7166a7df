package diagfmt

import (
	"path/filepath"
)

// formatPath приводит путь юнита к виду, заданному mode. Имена юнитов
// виртуальные, поэтому Auto оставляет их как есть.
func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if filepath.IsAbs(path) {
			return filepath.ToSlash(path)
		}
		if base != "" {
			return filepath.ToSlash(filepath.Join(base, path))
		}
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if base != "" && filepath.IsAbs(path) {
			if rel, err := filepath.Rel(base, path); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}
