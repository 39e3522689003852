// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes extracted days as one LaTeX book: a fixed
// preamble, then per day a centered bilingual preface, the letter grids and
// the body as two-column parallel text.
package render

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/martyrology/internal/texify"
	"github.com/pdiddy/martyrology/pkg/types"
)

//go:embed preamble.tex
var preambleSource string

var preamble = template.Must(template.New("preamble").Parse(preambleSource))

const closing = "\n\\end{document}\n"

// Renderer emits the LaTeX document.
type Renderer struct {
	title string
}

// New returns a Renderer for cfg. Empty fields take their defaults.
func New(cfg types.BuildConfig) *Renderer {
	return &Renderer{title: cfg.WithDefaults().Title}
}

// Render writes the complete document for days, in the order given, to w.
// A month boundary is written whenever the month folder changes.
func (r *Renderer) Render(w io.Writer, days []types.Day) error {
	var b strings.Builder
	if err := preamble.Execute(&b, struct{ Title string }{texify.Escape(r.title)}); err != nil {
		return fmt.Errorf("rendering preamble: %w", err)
	}

	month := 0
	for _, d := range days {
		month = writeMonthBoundary(&b, d.Path, month)
		writeDay(&b, d)
	}
	b.WriteString(closing)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// writeMonthBoundary starts a new recto page and updates the running heads
// when path belongs to a different month than prev. It returns the month now
// in effect. Paths outside the martNN folders leave prev unchanged.
func writeMonthBoundary(b *strings.Builder, path string, prev int) int {
	m := types.MonthOf(path)
	if m == 0 || m == prev {
		return prev
	}
	latin, english := types.MonthNames(m)
	b.WriteString("\\cleartorecto\n")
	fmt.Fprintf(b, "\\gdef\\LatinMonth{%s}\n", latin)
	fmt.Fprintf(b, "\\gdef\\EnglishMonth{%s}\n\n", english)
	return m
}

func writeDay(b *strings.Builder, d types.Day) {
	fmt.Fprintf(b, "\n%% ---- %s", d.Path)
	if d.Heading != "" {
		fmt.Fprintf(b, " (%s)", strings.Join(strings.Fields(d.Heading), " "))
	}
	b.WriteString("\n")

	b.WriteString(Preface(d.PrefaceLatin, d.PrefaceEnglish))
	b.WriteString("\n\n")
	b.WriteString(Grids(d.LetterGrids))
	b.WriteString("\n\n")
	b.WriteString(Body(d.Pairs))
	b.WriteString("\n\n")
}
