// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/martyrology/pkg/types"
)

// The closing "Et álibi ... R. Deo grátias." paragraph is printed once, on
// the first day of the year, and removed from every other day.
var (
	conclusionLatin   = regexp.MustCompile(`(?i)Et\s+al[ií]bi`)
	conclusionEnglish = regexp.MustCompile(`(?i)^\s*And elsewhere`)
	firstMonthFolder  = regexp.MustCompile(`(^|[/\\])mart01[/\\]`)
)

// IsFirstDay reports whether path is the page for the first of January,
// e.g. martyrology/mart01/mart0101.htm.
func IsFirstDay(path string) bool {
	p := strings.ToLower(path)
	if !firstMonthFolder.MatchString(p) {
		return false
	}
	return strings.HasSuffix(p, "mart0101.htm") || strings.HasSuffix(p, "mart0101.html")
}

// isConclusion reports whether p is the "and elsewhere" closing paragraph.
// Either side is enough.
func isConclusion(p types.Pair) bool {
	if conclusionLatin.MatchString(p.Latin) &&
		(strings.Contains(p.Latin, "R.") || strings.Contains(p.Latin, "Deo gr")) {
		return true
	}
	return conclusionEnglish.MatchString(p.English) &&
		(strings.Contains(p.English, "R.") || strings.Contains(p.English, "Thanks be to God"))
}

func dropConclusions(pairs []types.Pair) []types.Pair {
	kept := make([]types.Pair, 0, len(pairs))
	for _, p := range pairs {
		if !isConclusion(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
