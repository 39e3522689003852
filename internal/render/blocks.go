// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/martyrology/internal/response"
	"github.com/pdiddy/martyrology/internal/texify"
	"github.com/pdiddy/martyrology/pkg/types"
)

// placeholder keeps an empty paracol column from collapsing.
const placeholder = "~"

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Preface renders the preface line centered and colored in both columns.
// needspace keeps it on the same page as the letter grids that follow.
func Preface(latin, english string) string {
	l := texify.CollapseBlankLines(orPlaceholder(latin))
	r := texify.CollapseBlankLines(orPlaceholder(english))
	return strings.Join([]string{
		`\needspace{10\baselineskip}`,
		`\begin{paracol}{2}`,
		`\selectlanguage{latin}`,
		`\begin{center}{\color{gregoriocolor} ` + l + `}\end{center}`,
		`\switchcolumn`,
		`\selectlanguage{english}`,
		`\begin{center}{\color{gregoriocolor} ` + r + `}\end{center}`,
		`\end{paracol}`,
	}, "\n")
}

// Grids renders each letter grid as a borderless full-width tabularx with
// evenly spaced columns. Letters are colored and digits are not. In the
// second grid the first "F" stays uncolored.
func Grids(grids []types.LetterGrid) string {
	var out []string
	for i, g := range grids {
		if len(g) == 0 {
			continue
		}
		ncols := 0
		for _, row := range g {
			ncols = max(ncols, len(row))
		}
		plainF := i == 1

		out = append(out, fmt.Sprintf(`\noindent\begin{tabularx}{\linewidth}{*{%d}{>{\centering\arraybackslash}X}}`, ncols))
		for _, row := range g {
			cells := make([]string, ncols)
			for j := range cells {
				var c string
				if j < len(row) {
					c = strings.TrimSpace(row[j])
				}
				if plainF && c == "F" {
					cells[j] = c
					plainF = false
					continue
				}
				cells[j] = colorCell(c)
			}
			out = append(out, " "+strings.Join(cells, " & ")+` \\`)
		}
		out = append(out, `\end{tabularx}`)

		if i != len(grids)-1 {
			out = append(out, `\vspace{0.5\baselineskip}`)
		}
	}
	return strings.Join(out, "\n")
}

// colorCell colors alphabetic cells and leaves digits, empty cells and
// anything else as they are.
func colorCell(c string) string {
	if c == "" || !allRunes(c, unicode.IsLetter) {
		return c
	}
	return `\textcolor{gregoriocolor}{` + c + `}`
}

func allRunes(s string, f func(rune) bool) bool {
	for _, r := range s {
		if !f(r) {
			return false
		}
	}
	return true
}

// Body renders the paragraphs as alternating Latin/English paracol columns.
// Responses are expanded and response rows merged first. Only the first
// pair opens with drop capitals.
func Body(pairs []types.Pair) string {
	expanded := make([]types.Pair, len(pairs))
	for i, p := range pairs {
		expanded[i] = types.Pair{
			Latin:   response.Expand(p.Latin, response.Latin),
			English: response.Expand(p.English, response.English),
		}
	}

	lines := []string{`\begin{paracol}{2}`, `\selectlanguage{latin}`}
	for i, p := range response.MergeRows(expanded) {
		left, right := orPlaceholder(p.Latin), orPlaceholder(p.English)
		if i == 0 {
			left, right = DropCap(p.Latin), DropCap(p.English)
		}
		lines = append(lines,
			left,
			`\switchcolumn`,
			`\selectlanguage{english}`,
			right,
			`\switchcolumn*`,
			`\selectlanguage{latin}`,
		)
	}
	lines = append(lines, `\end{paracol}`)
	return strings.Join(lines, "\n")
}

// dropCapPattern splits text into leading space, first letter, the rest of
// the first word and the remainder (which may span lines).
var dropCapPattern = regexp.MustCompile(`(?s)^\s*(\p{Latin})(\S*)\s*(.*)$`)

// DropCap sets the first letter of s as a two-line lettrine with the rest
// of the first word in lettrine's small caps. Text that does not start with
// a letter is returned unchanged; empty text becomes the placeholder.
func DropCap(s string) string {
	if s == "" {
		return placeholder
	}
	m := dropCapPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	out := `\lettrine[lines=2]{` + m[1] + `}{` + m[2] + `}`
	if m[3] != "" {
		out += " " + m[3]
	}
	return out
}
