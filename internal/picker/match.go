package picker

import (
	"unicode"
	"unicode/utf8"
)

// Match reports whether the runes of term occur in name in order, with any
// number of characters between them, ignoring case. An empty term matches
// every name.
func Match(term []rune, name string) bool {
	if len(term) == 0 {
		return true
	}
	i := 0
	for len(name) > 0 {
		r, size := utf8.DecodeRuneInString(name)
		name = name[size:]
		if equalFold(term[i], r) {
			i++
			if i == len(term) {
				return true
			}
		}
	}
	return false
}

// equalFold compares two runes under Unicode simple case folding.
func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
