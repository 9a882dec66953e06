package picker

import (
	"maps"
	"slices"
)

// noSelection marks an empty filtered view.
const noSelection = -1

// Engine holds the project catalog, the live search term, the filtered view
// derived from them and the cursor into that view.
//
// The filtered view is always the sorted set of catalog names, minus the
// current session, that match the search term. The cursor is either absent
// (empty view) or a valid index into the view. Every operation is total and
// synchronous; Engine is not safe for concurrent use.
type Engine struct {
	catalog  map[string]string
	current  string
	term     []rune
	filtered []string
	selected int
}

// New builds an engine over catalog, excluding currentSession from the view.
// The catalog map is copied.
func New(catalog map[string]string, currentSession string) *Engine {
	e := &Engine{
		catalog:  make(map[string]string, len(catalog)),
		current:  currentSession,
		selected: noSelection,
	}
	maps.Copy(e.catalog, catalog)
	e.filtered = e.filter()
	if len(e.filtered) > 0 {
		e.selected = 0
	}
	return e
}

// AppendSearchChar appends r to the search term and refilters.
func (e *Engine) AppendSearchChar(r rune) {
	e.term = append(e.term, r)
	e.refresh()
}

// RemoveLastSearchChar drops the last rune of the search term and refilters.
// On an empty term it only recomputes, which leaves the state unchanged.
func (e *Engine) RemoveLastSearchChar() {
	if len(e.term) > 0 {
		e.term = e.term[:len(e.term)-1]
	}
	e.refresh()
}

// ClearSearch resets the search term.
func (e *Engine) ClearSearch() {
	e.term = e.term[:0]
	e.refresh()
}

// MoveDown advances the cursor, stopping at the last item.
func (e *Engine) MoveDown() {
	if e.selected == noSelection {
		return
	}
	if e.selected < len(e.filtered)-1 {
		e.selected++
	}
}

// MoveUp moves the cursor back, stopping at the first item.
func (e *Engine) MoveUp() {
	if e.selected > 0 {
		e.selected--
	}
}

// Merge unions entries into the catalog, entries winning on key collision,
// and refilters. Merging the same entries twice is a no-op the second time.
func (e *Engine) Merge(entries map[string]string) {
	maps.Copy(e.catalog, entries)
	e.refresh()
}

// SetCurrentSession changes the excluded name and refilters.
func (e *Engine) SetCurrentSession(name string) {
	if name == e.current {
		return
	}
	e.current = name
	e.refresh()
}

// SelectedItem returns the name under the cursor.
func (e *Engine) SelectedItem() (string, bool) {
	if e.selected == noSelection {
		return "", false
	}
	return e.filtered[e.selected], true
}

// SelectedIndex returns the cursor position within Filtered.
func (e *Engine) SelectedIndex() (int, bool) {
	if e.selected == noSelection {
		return 0, false
	}
	return e.selected, true
}

// SelectedPath returns the catalog path of the name under the cursor.
func (e *Engine) SelectedPath() (string, bool) {
	name, ok := e.SelectedItem()
	if !ok {
		return "", false
	}
	return e.Path(name)
}

// Path looks up a catalog entry.
func (e *Engine) Path(name string) (string, bool) {
	p, ok := e.catalog[name]
	return p, ok
}

// Filtered returns a copy of the filtered view in sorted order.
func (e *Engine) Filtered() []string {
	return slices.Clone(e.filtered)
}

// Catalog returns a copy of the catalog.
func (e *Engine) Catalog() map[string]string {
	return maps.Clone(e.catalog)
}

// SearchTerm returns the current search term.
func (e *Engine) SearchTerm() string { return string(e.term) }

// CurrentSession returns the name excluded from the view.
func (e *Engine) CurrentSession() string { return e.current }

// Len returns the number of names in the filtered view.
func (e *Engine) Len() int { return len(e.filtered) }

// ViewEmpty reports whether nothing matches the search term.
func (e *Engine) ViewEmpty() bool { return len(e.filtered) == 0 }

// CatalogEmpty reports whether no projects are known at all.
func (e *Engine) CatalogEmpty() bool { return len(e.catalog) == 0 }

// refresh recomputes the filtered view and re-seeks the cursor. The selected
// name is tracked first; the old numeric index is only used when that name
// has left the view.
func (e *Engine) refresh() {
	prev, hadPrev := e.SelectedItem()
	oldIdx := max(e.selected, 0)

	e.filtered = e.filter()

	if len(e.filtered) == 0 {
		e.selected = noSelection
		return
	}
	if hadPrev {
		if idx, found := slices.BinarySearch(e.filtered, prev); found {
			e.selected = idx
			return
		}
	}
	e.selected = min(oldIdx, len(e.filtered)-1)
}

func (e *Engine) filter() []string {
	out := make([]string, 0, len(e.catalog))
	for name := range e.catalog {
		if name == e.current {
			continue
		}
		if Match(e.term, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
