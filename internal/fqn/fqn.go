package fqn

import (
	"path/filepath"
	"strings"
)

// entryPointStems are file stems dropped from qualified names when they are
// the final path segment (src/auth/index.ts -> src.auth).
var entryPointStems = map[string]bool{
	"index": true,
	"main":  true,
	"mod":   true,
}

// Compute returns the qualified name for a symbol: the last three path
// segments of its file (extension stripped, entry-point stems dropped when
// final), joined by dots with the symbol name.
// Examples:
//   - src/auth/login.ts + authenticate  -> src.auth.login.authenticate
//   - a/b/c/d/e.py + f                  -> c.d.e.f (only the last three segments)
//   - src/hooks/index.ts + useAuth      -> src.hooks.useAuth
func Compute(relPath, name string) string {
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(filepath.ToSlash(relPath), "/")

	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	if len(parts) > 0 && entryPointStems[parts[len(parts)-1]] {
		parts = parts[:len(parts)-1]
	}

	if name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, ".")
}
