package discovery

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultFinder is the fd binary name
	DefaultFinder = "fd"

	// DefaultMaxDepth finds <root>/<name>/.git
	DefaultMaxDepth = 2

	// DefaultRoot is used when no roots are configured
	DefaultRoot = "~"

	gitDirPattern = `^\.git$`
)

// Command builds the finder invocation listing .git directories under roots:
//
//	<finder> -Htd --max-depth=<depth> ^\.git$ <root1> <root2> ...
func Command(finder string, maxDepth int, roots []string) []string {
	if finder == "" {
		finder = DefaultFinder
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	cmd := []string{
		finder,
		"-Htd",
		"--max-depth=" + strconv.Itoa(maxDepth),
		gitDirPattern,
	}
	return append(cmd, roots...)
}

// SplitRoots splits a colon-separated list of roots, dropping empty entries.
// An empty list yields the default root.
func SplitRoots(list string) []string {
	var roots []string
	for _, r := range strings.Split(list, ":") {
		r = strings.TrimSpace(r)
		if r != "" {
			roots = append(roots, r)
		}
	}
	if len(roots) == 0 {
		return []string{DefaultRoot}
	}
	return roots
}

// ExpandRoot expands a leading ~ to the current user's home directory and
// cleans the result. The finder is executed without a shell, so nothing else
// would expand it.
func ExpandRoot(path string) string {
	if path == "" {
		return path
	}
	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(path)
	}
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return filepath.Clean(path)
}

// ExpandRoots applies ExpandRoot to each root.
func ExpandRoots(roots []string) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = ExpandRoot(r)
	}
	return out
}
