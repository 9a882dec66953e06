package discovery

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// gitLine matches "<parent>/<name>/.git/" as printed by fd for a directory hit.
var gitLine = regexp.MustCompile(`^(?P<path>.*/(?P<name>[^/]+))/\.git/$`)

// ParseLine extracts the project from a single finder output line.
func ParseLine(line string) (Project, bool) {
	line = strings.TrimRight(line, "\r")
	m := gitLine.FindStringSubmatch(line)
	if m == nil {
		return Project{}, false
	}
	return Project{
		Name: m[gitLine.SubexpIndex("name")],
		Path: m[gitLine.SubexpIndex("path")],
	}, true
}

// ParseOutput turns finder output into a name -> path map.
// Output that is not valid UTF-8 contributes nothing; lines that do not look
// like a .git directory are dropped. Later lines win on duplicate names.
func ParseOutput(data []byte) map[string]string {
	projects := make(map[string]string)
	if !utf8.Valid(data) {
		return projects
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if p, ok := ParseLine(scanner.Text()); ok {
			projects[p.Name] = p.Path
		}
	}
	return projects
}

// Filter drops projects whose path matches any ignore glob
type Filter struct {
	patterns []string
}

// NewFilter validates the doublestar patterns.
func NewFilter(patterns []string) (*Filter, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return &Filter{patterns: patterns}, nil
}

// Ignored reports whether path matches one of the patterns.
func (f *Filter) Ignored(path string) bool {
	if f == nil {
		return false
	}
	for _, p := range f.patterns {
		if doublestar.MatchUnvalidated(p, path) {
			return true
		}
	}
	return false
}

// Apply removes ignored entries from projects in place and returns it.
func (f *Filter) Apply(projects map[string]string) map[string]string {
	if f == nil || len(f.patterns) == 0 {
		return projects
	}
	for name, path := range projects {
		if f.Ignored(path) {
			delete(projects, name)
		}
	}
	return projects
}
