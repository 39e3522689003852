// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// isElement reports whether n is an element with one of the given tag names.
func isElement(n *html.Node, tags ...string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.Data == t {
			return true
		}
	}
	return false
}

// findAll returns every descendant of n (not n itself) with the given tag,
// in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, tag) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first descendant of n with the given tag, or nil.
func findFirst(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			return c
		}
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// directRows returns the rows that belong to table itself. The HTML parser
// wraps rows in an implicit <tbody>, so row groups are looked through; rows
// of nested tables are not included.
func directRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isElement(c, "tr"):
			rows = append(rows, c)
		case isElement(c, "thead", "tbody", "tfoot"):
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if isElement(r, "tr") {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}

// directCells returns the child cells of row with one of the given tags.
func directCells(row *html.Node, tags ...string) []*html.Node {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tags...) {
			cells = append(cells, c)
		}
	}
	return cells
}

// cleanText concatenates the text under n without adding separators between
// inline elements, so "Circumc<b>í</b>sio" stays one word. <br> becomes a
// newline; script and style content is skipped.
func cleanText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		switch {
		case p.Type == html.TextNode:
			b.WriteString(p.Data)
			return
		case isElement(p, "script", "style"):
			return
		case isElement(p, "br"):
			b.WriteByte('\n')
			return
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
