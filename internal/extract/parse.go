// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/martyrology/pkg/types"
)

// Decode converts raw page bytes to UTF-8 text. Ill-formed byte sequences
// are dropped rather than reported; a U+FFFD present in the source is kept.
// The result is NFC-normalized, so decomposed accents ("e" + U+0301) come out
// precomposed and markers such as "Kaléndis" compare equal however the page
// encoded them.
func Decode(data []byte) string {
	return norm.NFC.String(strings.ToValidUTF8(string(data), ""))
}

// ParseFile reads the page at path and extracts its Day. The file is closed
// before ParseFile returns. ok is false when the page has no table.
func ParseFile(path string) (day types.Day, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Day{}, false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ParseReader(f, path)
}

// ParseReader extracts a Day from the page read from r. path is recorded in
// the Day and selects the first-day exception.
func ParseReader(r io.Reader, path string) (day types.Day, ok bool, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Day{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := html.Parse(strings.NewReader(Decode(data)))
	if err != nil {
		return types.Day{}, false, fmt.Errorf("parsing HTML %s: %w", path, err)
	}

	day, ok = Extract(doc, path)
	return day, ok, nil
}
