// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package build

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/martyrology/pkg/types"
)

const dayPage = `<html><head><title>Martyrologium</title></head><body><table>
<tr><td colspan="2"><p>%MONTH% %DAY%</p></td></tr>
<tr><td>Luna prima.</td><td>%MONTH% %DAY%. The first Day of the Moon.</td></tr>
<tr><td>Romae, sancti Petri.</td><td>At Rome, St. Peter.</td></tr>
<tr><td>R. Deo grátias.</td><td>R. Thanks be to God.</td></tr>
</table></body></html>`

func writePage(t *testing.T, root string, month int, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, types.MonthFolder(month))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func dayContent(month, day string) string {
	return strings.NewReplacer("%MONTH%", month, "%DAY%", day).Replace(dayPage)
}

// setupSource creates a source tree with two days in January, one in
// February, a page without a table and a file that is not a page.
func setupSource(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "martyrology")
	writePage(t, root, 2, "mart0201.htm", dayContent("February", "1"))
	writePage(t, root, 1, "mart0102.htm", dayContent("January", "2"))
	writePage(t, root, 1, "mart0101.htm", dayContent("January", "1"))
	writePage(t, root, 3, "index.htm", "<html><body><p>Contents</p></body></html>")
	writePage(t, root, 1, "notes.txt", "not a page")
	return root
}

func TestDiscover(t *testing.T) {
	root := setupSource(t)

	paths, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "mart01", "mart0101.htm"),
		filepath.Join(root, "mart01", "mart0102.htm"),
		filepath.Join(root, "mart02", "mart0201.htm"),
		filepath.Join(root, "mart03", "index.htm"),
	}, paths)
}

func TestDiscover_MissingSource(t *testing.T) {
	paths, err := Discover(filepath.Join(t.TempDir(), "nothing"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestCollect(t *testing.T) {
	root := setupSource(t)
	// A directory with a page name cannot be read as a page.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "mart04", "broken.htm"), 0o755))

	paths, err := Discover(root)
	require.NoError(t, err)

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	days, summary := Collect(paths, log)

	assert.Equal(t, Summary{Extracted: 3, Skipped: 1, Failed: 1}, summary)
	assert.Equal(t, 5, summary.Total())
	assert.True(t, summary.HasFailures())

	require.Len(t, days, 3)
	assert.Equal(t, "January 1", days[0].Heading)
	assert.Equal(t, "February 1", days[2].Heading)
	for _, d := range days {
		assert.Len(t, d.Pairs, 1, d.Path)
	}

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, filepath.Join(root, "mart04", "broken.htm"), e.Data["path"])
		}
	}
	assert.True(t, warned, "unreadable page should be logged as a warning")
}

func TestBuilderRun(t *testing.T) {
	root := setupSource(t)
	out := filepath.Join(t.TempDir(), "book.tex")

	log, _ := logtest.NewNullLogger()
	b := New(types.BuildConfig{SourceDir: root, Output: out, Title: "Test Book"}, log)

	var progress bytes.Buffer
	summary, err := b.Run(&progress)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Extracted)
	assert.Contains(t, progress.String(), "Wrote "+out+" with 3 days.")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	tex := string(data)

	assert.Contains(t, tex, `\title{Test Book}`)
	assert.Equal(t, 2, strings.Count(tex, `\cleartorecto`))
	assert.Less(t,
		strings.Index(tex, filepath.Join(root, "mart01", "mart0101.htm")),
		strings.Index(tex, filepath.Join(root, "mart01", "mart0102.htm")))
	assert.Contains(t, tex, `\textcolor{gregoriocolor}{\Rbar.}~Deo grátias.`)
	assert.True(t, strings.HasSuffix(tex, "\\end{document}\n"))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(out), ".book.tex.*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary file should be renamed away")
}

func TestBuilderRun_NoDocuments(t *testing.T) {
	root := filepath.Join(t.TempDir(), "martyrology")
	writePage(t, root, 1, "index.htm", "<html><body>no table</body></html>")
	out := filepath.Join(t.TempDir(), "book.tex")

	log, _ := logtest.NewNullLogger()
	var progress bytes.Buffer
	_, err := New(types.BuildConfig{SourceDir: root, Output: out}, log).Run(&progress)

	require.ErrorIs(t, err, ErrNoDocuments)
	assert.Contains(t, progress.String(), "No documents parsed. Check mart01..mart12 folders.")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output file should be written")
}

func TestWriteFileAtomic_KeepsOldFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.tex")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := writeFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}
