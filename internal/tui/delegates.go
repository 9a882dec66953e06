package tui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// projectItem wraps one filtered-view entry for the list component
type projectItem struct {
	name    string
	path    string
	matches []int // byte offsets into name to highlight
}

func (i projectItem) FilterValue() string { return i.name }
func (i projectItem) Title() string       { return i.name }
func (i projectItem) Description() string { return i.path }

// buildItems turns the filtered view into list items, attaching the matched
// character offsets for the current term
func buildItems(names []string, paths map[string]string, term string) []list.Item {
	var offsets map[int][]int
	if term != "" {
		offsets = make(map[int][]int, len(names))
		for _, match := range fuzzy.Find(term, names) {
			offsets[match.Index] = match.MatchedIndexes
		}
	}

	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = projectItem{name: name, path: paths[name], matches: offsets[i]}
	}
	return items
}

// projectDelegate renders project items on a single line
type projectDelegate struct {
	styles *styles
	width  int
}

func newProjectDelegate(s *styles) *projectDelegate {
	return &projectDelegate{styles: s}
}

// SetWidth updates the render width
func (d *projectDelegate) SetWidth(w int) { d.width = w }

func (d *projectDelegate) Height() int                             { return 1 }
func (d *projectDelegate) Spacing() int                            { return 0 }
func (d *projectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	base := d.styles.normal
	indicator := "  "
	if selected {
		base = d.styles.selected
		indicator = d.styles.indicator.Render("▌ ")
	}

	name := highlight(i.name, i.matches, base, d.styles.match.Inherit(base))

	// Path fills whatever room the name leaves
	room := d.width - 2 - utf8.RuneCountInString(i.name) - 2
	path := ""
	if room > 4 && i.path != "" {
		path = "  " + d.styles.path.Render(truncate(i.path, room))
	}

	_, _ = fmt.Fprint(w, indicator+name+path)
}

// highlight renders s with the runes starting at the given byte offsets in
// the match style
func highlight(s string, offsets []int, base, match lipgloss.Style) string {
	if len(offsets) == 0 {
		return base.Render(s)
	}
	hit := make(map[int]struct{}, len(offsets))
	for _, o := range offsets {
		hit[o] = struct{}{}
	}

	var b strings.Builder
	for pos, r := range s {
		if _, ok := hit[pos]; ok {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// truncate shortens a string to maxLen runes with an ellipsis
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen < 2 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
