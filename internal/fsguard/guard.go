// Package fsguard enforces the filesystem access policy: every path the
// pipeline touches must live inside an administrator-configured allow-list,
// and paths are re-validated on every access because files can be removed
// or replaced by symlinks between checks.
package fsguard

import (
	"os"
	"path/filepath"
	"strings"

	"docbridge/internal/domain"
)

// Guard validates candidate paths against the configured allowed roots.
// It is stateless apart from the immutable root list.
type Guard struct {
	roots []string
}

// NewGuard creates a Guard over the given allowed roots. Roots are
// canonicalized once here; they are configuration, not user input.
func NewGuard(roots []string) *Guard {
	canonical := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = filepath.Clean(r)
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		canonical = append(canonical, abs)
	}
	return &Guard{roots: canonical}
}

// Roots returns the canonical allowed roots.
func (g *Guard) Roots() []string {
	return g.roots
}

// IsAllowed reports whether path may be accessed.
//
// Three conditions are security violations and return a SecurityError
// instead of a plain denial: a '..' segment anywhere in the path, an empty
// allow-list, and the path itself being a symbolic link. Any other failure
// to resolve the path is an ordinary denial (false, nil).
func (g *Guard) IsAllowed(path string) (bool, error) {
	if len(g.roots) == 0 {
		return false, &domain.SecurityError{Path: path, Reason: "no allowed roots configured"}
	}
	if hasTraversalSegment(path) {
		return false, &domain.SecurityError{Path: path, Reason: "parent traversal segment in path"}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, nil
	}

	// Symlinks are never followed, even when the target would land inside
	// an allowed root.
	if fi, err := os.Lstat(abs); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return false, &domain.SecurityError{Path: path, Reason: "path is a symbolic link"}
	}

	canonical := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		canonical = resolved
	}

	for _, root := range g.roots {
		if isWithin(root, canonical) {
			return true, nil
		}
	}
	return false, nil
}

// isWithin reports whether path equals root or is a descendant of it.
func isWithin(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

func hasTraversalSegment(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
