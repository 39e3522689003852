// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package response expands the liturgical response abbreviation "R." into
// the colored \Rbar marker with its bilingual phrase, and stitches rows that
// begin with a response onto the paragraph they answer.
package response

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/martyrology/pkg/types"
)

// Language selects the canonical phrase appended after the marker.
type Language int

const (
	Latin Language = iota
	English
)

// Marker is the colored response symbol that replaces "R.".
const Marker = `\textcolor{gregoriocolor}{\Rbar.}~`

// The patterns have no leading word boundary: RE2's \b is ASCII-only, so
// Expand checks the rune before each match itself.
var (
	latinPattern   = regexp.MustCompile(`[Rr]\s*\.\s*(D[eé]o\s+gr[aá]ti[aá]s\.)?`)
	englishPattern = regexp.MustCompile(`[Rr]\s*\.\s*(Thanks\s+be\s+to\s+God\.)?`)
)

// phrase returns the pattern and canonical phrase for lang.
func phrase(lang Language) (*regexp.Regexp, string) {
	if lang == English {
		return englishPattern, "Thanks be to God."
	}
	return latinPattern, `Deo gr\'atias.`
}

// Expand replaces every "R." (or "r.") in text with Marker followed by the
// canonical phrase for lang. When the phrase already follows the
// abbreviation it is kept verbatim instead of being appended again.
// Expand is a no-op on its own output.
func Expand(text string, lang Language) string {
	if text == "" {
		return text
	}
	re, canonical := phrase(lang)
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if inWord(text, m[0]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(Marker)
		if m[2] >= 0 {
			b.WriteString(text[m[2]:m[3]])
		} else {
			b.WriteString(canonical)
			// Keep the text that followed "R. " separated from the phrase.
			if m[1] < len(text) && m[1] > m[0] && isSpace(text[m[1]-1]) {
				b.WriteByte(' ')
			}
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// inWord reports whether the rune before text[i] is a letter, digit or
// underscore, so that "Petr." and "sorór." are not read as responses.
func inWord(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// responseToken matches a side that opens with a raw "R." or with a marker
// already produced by Expand.
var responseToken = regexp.MustCompile(`^\s*(?:[Rr]\s*\.|\\textcolor\{gregoriocolor\}\{\\Rbar)`)

// StartsWithResponse reports whether s begins with a response token.
func StartsWithResponse(s string) bool {
	return s != "" && responseToken.MatchString(s)
}

// MergeRows appends every row that begins with a response onto the previous
// row. Latin and English are tested separately: only the side that starts
// with a response is joined, the other side of the previous row is kept.
// The first row is never merged.
func MergeRows(pairs []types.Pair) []types.Pair {
	merged := make([]types.Pair, 0, len(pairs))
	for _, p := range pairs {
		latin, english := StartsWithResponse(p.Latin), StartsWithResponse(p.English)
		if len(merged) == 0 || (!latin && !english) {
			merged = append(merged, p)
			continue
		}
		last := &merged[len(merged)-1]
		if latin {
			last.Latin = strings.TrimSpace(last.Latin + " " + p.Latin)
		}
		if english {
			last.English = strings.TrimSpace(last.English + " " + p.English)
		}
	}
	return merged
}
