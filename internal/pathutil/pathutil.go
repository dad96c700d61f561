// Package pathutil shortens file paths for logs and error messages.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// RedactPath rewrites a path under the user's home directory as "~/...".
// Paths outside home are reduced to .../<parent>/<basename>.
// For example, "/home/user/.monty/monty.db" becomes "~/.monty/monty.db".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if cleaned == home {
			return "~"
		}
		if rel, ok := strings.CutPrefix(cleaned, home+string(filepath.Separator)); ok {
			return "~" + string(filepath.Separator) + rel
		}
	}

	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}
