package rewrite

import (
	"path/filepath"
	"slices"
	"strings"
)

var (
	// DefaultSkipDirs are directory names never descended into.
	DefaultSkipDirs = []string{".git", "node_modules", ".next", "__pycache__", "dist", ".venv", "venv"}

	// DefaultExtensions are the file extensions whose contents are rewritten.
	DefaultExtensions = []string{
		".ts", ".tsx", ".js", ".jsx", ".json", ".py", ".md", ".env", ".local",
		".sh", ".yaml", ".yml", ".css", ".html",
	}

	// DefaultNamePrefixes match dotenv files regardless of their suffix.
	DefaultNamePrefixes = []string{".env"}
)

// Filter decides which entries of a tree walk are considered.
type Filter struct {
	SkipDirs     []string
	Extensions   []string
	NamePrefixes []string
}

// DefaultFilter returns the filter used for codebase-wide address migrations.
func DefaultFilter() Filter {
	return Filter{
		SkipDirs:     slices.Clone(DefaultSkipDirs),
		Extensions:   slices.Clone(DefaultExtensions),
		NamePrefixes: slices.Clone(DefaultNamePrefixes),
	}
}

// Prunes reports whether a directory with the given base name is skipped.
func (f Filter) Prunes(dirName string) bool {
	return slices.Contains(f.SkipDirs, dirName)
}

// Includes reports whether a file with the given base name is rewritten. Matching is
// case-sensitive.
func (f Filter) Includes(fileName string) bool {
	if slices.Contains(f.Extensions, filepath.Ext(fileName)) {
		return true
	}

	return slices.ContainsFunc(f.NamePrefixes, func(prefix string) bool {
		return strings.HasPrefix(fileName, prefix)
	})
}
