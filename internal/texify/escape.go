// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texify turns raw page text into LaTeX-safe text: it escapes the
// characters LaTeX reserves, tidies whitespace and converts straight quotes
// into TeX quote ligatures.
package texify

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// replacer escapes LaTeX-reserved characters. Accented letters and other
// Unicode pass through unchanged.
var replacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\~{}`,
)

var (
	horizontalSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,;:?!])`)
)

// Escape decodes HTML entities, escapes LaTeX-reserved characters, collapses
// horizontal whitespace and removes whitespace before punctuation. Newlines
// inside the text are kept. The result is trimmed. Case is never changed.
func Escape(raw string) string {
	if raw == "" {
		return ""
	}
	s := html.UnescapeString(raw)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimRight(s, "\n")
	s = replacer.Replace(s)
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// blankLines matches a newline followed by at least one more (possibly
// indented) newline.
var blankLines = regexp.MustCompile(`\n\s*\n+`)

// CollapseBlankLines replaces every run of blank lines with a single space so
// that the text cannot start a new LaTeX paragraph. Single newlines stay.
func CollapseBlankLines(s string) string {
	return blankLines.ReplaceAllString(s, " ")
}
