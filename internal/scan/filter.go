package scan

import (
	"path"
	"strings"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"build":        {},
	"coverage":     {},
	"__tests__":    {},
	"__mocks__":    {},
}

var skipExts = map[string]struct{}{
	".md":   {},
	".txt":  {},
	".json": {},
	".lock": {},
	".log":  {},
	".map":  {},
	".png":  {},
	".jpg":  {},
}

var skipNames = map[string]struct{}{
	"package-lock.json": {},
	"yarn.lock":         {},
	".env":              {},
}

// SkipDir reports whether a directory with this base name is never walked:
// build/vendor/test directories, dunder directories and hidden directories.
func SkipDir(name string) bool {
	if _, ok := skipDirs[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "__") ||
		strings.HasSuffix(name, "__") ||
		strings.HasPrefix(name, ".")
}

// SkipFile reports whether a file with this base name is never a candidate.
func SkipFile(name string) bool {
	if _, ok := skipNames[name]; ok {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if strings.HasSuffix(name, ".d.ts") || strings.HasSuffix(name, ".min.js") {
		return true
	}
	_, ok := skipExts[strings.ToLower(path.Ext(name))]
	return ok
}
