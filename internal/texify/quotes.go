// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package texify

import (
	"strings"
	"unicode"
)

// quoteToggle is the two-state parity of one quote kind.
type quoteToggle struct {
	inside bool
}

func (q *quoteToggle) next(opening, closing string) string {
	q.inside = !q.inside
	if q.inside {
		return opening
	}
	return closing
}

// FixQuotes converts straight quotes into TeX quotes. Double quotes alternate
// strictly between `` and '' by occurrence. Single quotes alternate between
// ` and ' the same way, except that a single quote directly after a letter is
// an apostrophe: it is kept and does not flip the state.
func FixQuotes(s string) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}

	var (
		b      strings.Builder
		double quoteToggle
		single quoteToggle
		prev   rune
	)
	b.Grow(len(s) + 8)

	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(double.next("``", "''"))
		case r == '\'' && unicode.IsLetter(prev):
			b.WriteRune(r)
		case r == '\'':
			b.WriteString(single.next("`", "'"))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
