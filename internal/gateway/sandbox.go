package gateway

import (
	"path/filepath"
	"strings"
)

// IsAuthorizedPath reports whether path resolves to a location inside root.
// Both sides are canonicalized first, so `..` segments and symlinked parents
// cannot smuggle a path out, and the comparison requires root plus a path
// separator (or exact equality) so that a sibling like /data-evil never
// satisfies a root of /data.
//
// Callers revalidate on every use. The filesystem can change between check
// and use; that race is inherent to a path-prefix policy and accepted.
func IsAuthorizedPath(path, root string) bool {
	if strings.TrimSpace(path) == "" || strings.TrimSpace(root) == "" {
		return false
	}
	resolvedRoot := canonicalPath(root)
	resolved := canonicalPath(path)
	if resolved == resolvedRoot {
		return true
	}
	return strings.HasPrefix(resolved, resolvedRoot+string(filepath.Separator))
}

// canonicalPath yields an absolute, symlink-resolved form of p. When p does
// not exist yet, the deepest existing ancestor is resolved and the remaining
// segments are rejoined, so a symlinked parent directory still counts.
// Unresolvable input degrades to a cleaned form that simply fails the prefix
// check; there is no error path.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	dir := abs
	var rest []string
	for {
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append([]string{real}, rest...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent
	}
}
