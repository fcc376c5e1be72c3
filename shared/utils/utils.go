package utils

import (
	"path/filepath"
	"sort"
	"strings"
)

// NormalizePath converts an OS path into the slash-separated relative form
// used as map keys everywhere in the pipeline.
func NormalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Ancestors lists every directory above path, nearest first, ending with "."
// for the tree root. Ancestors("a/b/c.txt") is ["a/b", "a", "."].
func Ancestors(path string) []string {
	var dirs []string
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		dirs = append(dirs, filepath.ToSlash(dir))
		if dir == "." || dir == string(filepath.Separator) {
			break
		}
	}
	return dirs
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasComponent reports whether the slash-relative path contains name as an
// exact path component, e.g. HasComponent("a/.git/b", ".git") is true.
func HasComponent(rel, name string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == name {
			return true
		}
	}
	return false
}
