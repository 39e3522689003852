// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build runs the whole conversion: it discovers the month folders'
// pages, extracts every page in path order and writes the combined LaTeX
// document.
package build

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/martyrology/internal/extract"
	"github.com/pdiddy/martyrology/internal/render"
	"github.com/pdiddy/martyrology/pkg/types"
)

// pageExt is the extension of the legacy FrontPage pages.
const pageExt = ".htm"

// ErrNoDocuments is returned when no page yielded a day. No output is
// written in that case.
var ErrNoDocuments = errors.New("no documents parsed")

// Summary holds the outcome of extracting a set of pages.
type Summary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of pages processed.
func (s Summary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any page could not be read.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Discover returns the pages in sourceDir/mart01 ... mart12, sorted by path.
// Missing month folders contribute no pages.
func Discover(sourceDir string) ([]string, error) {
	var paths []string
	for m := 1; m <= 12; m++ {
		pattern := filepath.Join(sourceDir, types.MonthFolder(m), "*"+pageExt)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}

// Collect extracts every page in order. Pages without a table are skipped
// and unreadable pages are counted as failed; neither stops the run.
func Collect(paths []string, log logrus.FieldLogger) ([]types.Day, Summary) {
	var (
		days    []types.Day
		summary Summary
	)
	for _, p := range paths {
		entry := log.WithField("path", p)

		day, ok, err := extract.ParseFile(p)
		switch {
		case err != nil:
			entry.WithError(err).Warn("page could not be read")
			summary.Failed++
		case !ok:
			entry.Debug("no table found, page skipped")
			summary.Skipped++
		default:
			entry.WithFields(logrus.Fields{
				"month": types.MonthOf(p),
				"grids": len(day.LetterGrids),
				"pairs": len(day.Pairs),
			}).Debug("page extracted")
			days = append(days, day)
			summary.Extracted++
		}
	}
	return days, summary
}

// Builder turns the month folders into one LaTeX file.
type Builder struct {
	cfg      types.BuildConfig
	log      logrus.FieldLogger
	renderer *render.Renderer
}

// New returns a Builder for cfg. Empty config fields take their defaults.
func New(cfg types.BuildConfig, log logrus.FieldLogger) *Builder {
	cfg = cfg.WithDefaults()
	return &Builder{
		cfg:      cfg,
		log:      log,
		renderer: render.New(cfg),
	}
}

// Days discovers and extracts all pages.
func (b *Builder) Days() ([]types.Day, Summary, error) {
	paths, err := Discover(b.cfg.SourceDir)
	if err != nil {
		return nil, Summary{}, err
	}
	b.log.WithFields(logrus.Fields{"source_dir": b.cfg.SourceDir, "pages": len(paths)}).Debug("pages discovered")

	days, summary := Collect(paths, b.log)
	return days, summary, nil
}

// Run extracts all pages and writes the document to the configured output,
// reporting progress to w. It returns ErrNoDocuments, without writing, when
// no page yielded a day.
func (b *Builder) Run(w io.Writer) (Summary, error) {
	days, summary, err := b.Days()
	if err != nil {
		return summary, err
	}
	if summary.HasFailures() {
		fmt.Fprintf(w, "warning: %d page(s) could not be read\n", summary.Failed)
	}
	if len(days) == 0 {
		fmt.Fprintln(w, "No documents parsed. Check mart01..mart12 folders.")
		return summary, ErrNoDocuments
	}

	if err := writeFileAtomic(b.cfg.Output, func(f io.Writer) error {
		return b.renderer.Render(f, days)
	}); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "Wrote %s with %d days.\n", b.cfg.Output, len(days))
	return summary, nil
}

// writeFileAtomic writes through a temporary file in the destination
// directory and renames it into place, so path is either fully written or
// left untouched.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}
