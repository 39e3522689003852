// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// Pair is one bilingual body paragraph: Latin on the left, English on the right.
type Pair struct {
	Latin   string `json:"latin" yaml:"latin"`
	English string `json:"english" yaml:"english"`
}

// LetterGrid is a nested table of single-letter or digit cells, row-major.
type LetterGrid [][]string

// Day holds everything extracted from one source page. All strings are
// already LaTeX-escaped and quote-fixed.
type Day struct {
	// Path is the source file path. It determines ordering and the month.
	Path string `json:"path" yaml:"path"`

	// Heading is the month/day label, the page title, or "Untitled".
	Heading string `json:"heading" yaml:"heading"`

	// PrefaceLatin and PrefaceEnglish hold the bilingual preface line.
	PrefaceLatin   string `json:"preface_latin" yaml:"preface_latin"`
	PrefaceEnglish string `json:"preface_english" yaml:"preface_english"`

	// LetterGrids are the nested letter tables following the preface.
	LetterGrids []LetterGrid `json:"letter_grids,omitempty" yaml:"letter_grids,omitempty"`

	// Pairs are the body paragraphs in source order.
	Pairs []Pair `json:"pairs" yaml:"pairs"`
}

// MonthsLatin and MonthsEnglish are indexed by month-1.
var (
	MonthsLatin = [12]string{
		"Ianuarius", "Februarius", "Martius", "Aprilis", "Maius", "Iunius",
		"Iulius", "Augustus", "September", "October", "November", "December",
	}
	MonthsEnglish = [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

// monthFolderPattern matches the month folder names mart01 ... mart12.
var monthFolderPattern = regexp.MustCompile(`(?i)^mart(\d\d)$`)

// MonthFolder returns the folder name for month m (1-12), e.g. "mart03".
func MonthFolder(m int) string {
	if m < 10 {
		return "mart0" + strconv.Itoa(m)
	}
	return "mart" + strconv.Itoa(m)
}

// MonthOf derives the month index (1-12) from the name of the folder that
// contains path. It returns 0 when the folder does not follow the
// martNN convention or NN is out of range.
func MonthOf(path string) int {
	folder := filepath.Base(filepath.Dir(filepath.FromSlash(path)))
	m := monthFolderPattern.FindStringSubmatch(folder)
	if m == nil {
		return 0
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil || idx < 1 || idx > 12 {
		return 0
	}
	return idx
}

// MonthNames returns the Latin and English names for month m (1-12).
func MonthNames(m int) (latin, english string) {
	if m < 1 || m > 12 {
		return "", ""
	}
	return MonthsLatin[m-1], MonthsEnglish[m-1]
}
