// Package util provides filesystem path helpers shared across skillreg.
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory.
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigDir returns the skillreg configuration directory.
func ConfigDir() string {
	return filepath.Join(HomeDir(), ".skillreg")
}

// DefaultSkillRoots returns the skill root directories searched when no
// roots are configured, in precedence order: project-local first, then the
// user's skillreg skills, then the Claude Code skills directory since that
// is where most published skills already live.
func DefaultSkillRoots() []string {
	return []string{
		filepath.Join(".skillreg", "skills"),
		filepath.Join(HomeDir(), ".skillreg", "skills"),
		filepath.Join(HomeDir(), ".claude", "skills"),
	}
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}

// SplitPaths splits a list-valued environment variable on the OS path list
// separator, dropping empty entries.
func SplitPaths(value string) []string {
	var out []string
	for _, p := range strings.Split(value, string(os.PathListSeparator)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
