// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads one legacy calendar page and returns its heading,
// preface line, letter grids and bilingual body paragraphs as a types.Day.
//
// Each part of the page is located by an independent step that reports
// whether it found anything; a missing preface or grid degrades to empty
// fields. Only a page without any table is rejected.
package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/martyrology/internal/response"
	"github.com/pdiddy/martyrology/internal/texify"
	"github.com/pdiddy/martyrology/pkg/types"
)

// untitled is the heading used when a page has neither a month heading nor
// a <title>.
const untitled = "Untitled"

// englishMonths are the first tokens accepted for a heading paragraph.
var englishMonths = func() map[string]bool {
	m := make(map[string]bool, len(types.MonthsEnglish))
	for _, name := range types.MonthsEnglish {
		m[name] = true
	}
	return m
}()

// Latin and English markers that identify the preface row.
var (
	prefaceLatinMarkers   = []string{"Luna", "Kaléndis"}
	prefaceEnglishMarkers = []string{"January", "Day of the Moon"}
)

// Extract builds a Day from a parsed page. The second result is false when
// the page has no table; such pages are left out of the book.
func Extract(doc *html.Node, path string) (types.Day, bool) {
	table, ok := mainTable(doc)
	if !ok {
		return types.Day{}, false
	}

	rows := directRows(table)
	pre, next, _ := findPreface(rows)
	grids, next := letterGrids(rows, next)

	pairs := response.MergeRows(bodyPairs(rows[next:]))
	if !IsFirstDay(path) {
		pairs = dropConclusions(pairs)
	}

	return types.Day{
		Path:           path,
		Heading:        heading(doc, table),
		PrefaceLatin:   pre.Latin,
		PrefaceEnglish: pre.English,
		LetterGrids:    grids,
		Pairs:          pairs,
	}, true
}

// mainTable returns the table with the most rows, counting rows of nested
// tables. Ties go to the table that comes first.
func mainTable(doc *html.Node) (*html.Node, bool) {
	var (
		best    *html.Node
		maxRows = -1
	)
	for _, t := range findAll(doc, "table") {
		if n := len(findAll(t, "tr")); n > maxRows {
			best, maxRows = t, n
		}
	}
	return best, best != nil
}

// heading returns the first paragraph in table that reads like "January 1",
// falling back to the page title.
func heading(doc, table *html.Node) string {
	for _, p := range findAll(table, "p") {
		if txt := cleanText(p); looksLikeMonthHeading(txt) {
			return texify.Escape(txt)
		}
	}
	if title := findFirst(doc, "title"); title != nil {
		if txt := texify.Escape(cleanText(title)); txt != "" {
			return txt
		}
	}
	return untitled
}

func looksLikeMonthHeading(text string) bool {
	fields := strings.Fields(text)
	return len(fields) >= 2 && englishMonths[fields[0]]
}

// cellText is the normalized, quote-fixed text of a body or preface cell.
func cellText(td *html.Node) string {
	return texify.FixQuotes(texify.Escape(cleanText(td)))
}

// findPreface returns the first two-cell row whose cells carry the preface
// markers, and the index of the row after it. When no row matches, the
// index is 0 so that later steps scan the whole table.
func findPreface(rows []*html.Node) (types.Pair, int, bool) {
	for i, tr := range rows {
		tds := directCells(tr, "td")
		if len(tds) != 2 {
			continue
		}
		left, right := cellText(tds[0]), cellText(tds[1])
		if left == "" || right == "" {
			continue
		}
		if containsAny(left, prefaceLatinMarkers) || containsAny(right, prefaceEnglishMarkers) {
			return types.Pair{Latin: left, English: right}, i + 1, true
		}
	}
	return types.Pair{}, 0, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// letterGrids reads the nested tables in rows[start]. If that row holds no
// table it is left for the body and start is returned unchanged; otherwise
// the row is consumed.
func letterGrids(rows []*html.Node, start int) ([]types.LetterGrid, int) {
	if start >= len(rows) {
		return nil, start
	}
	nested := findAll(rows[start], "table")
	if len(nested) == 0 {
		return nil, start
	}

	var grids []types.LetterGrid
	for _, tb := range nested {
		var grid types.LetterGrid
		for _, tr := range directRows(tb) {
			cells := directCells(tr, "td", "th")
			row := make([]string, len(cells))
			keep := false
			for i, td := range cells {
				row[i] = texify.Escape(cleanText(td))
				keep = keep || row[i] != ""
			}
			if keep {
				grid = append(grid, row)
			}
		}
		if len(grid) > 0 {
			grids = append(grids, grid)
		}
	}
	return grids, start + 1
}

// bodyPairs turns the remaining two-cell rows into Latin/English pairs,
// skipping spacer rows and rows where both cells are empty.
func bodyPairs(rows []*html.Node) []types.Pair {
	var pairs []types.Pair
	for _, tr := range rows {
		if isSpacer(tr) {
			continue
		}
		tds := directCells(tr, "td")
		if len(tds) != 2 {
			continue
		}
		p := types.Pair{Latin: cellText(tds[0]), English: cellText(tds[1])}
		if p.Latin != "" || p.English != "" {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// isSpacer reports rows that hold no cells, an image, or no text at all.
func isSpacer(tr *html.Node) bool {
	if len(directCells(tr, "td")) == 0 {
		return true
	}
	if findFirst(tr, "img") != nil {
		return true
	}
	return texify.Escape(cleanText(tr)) == ""
}
