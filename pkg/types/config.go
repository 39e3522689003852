// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Defaults for the fixed layout: month folders under ./martyrology and a
// single martyrology.tex written to the working directory.
const (
	DefaultSourceDir  = "martyrology"
	DefaultOutput     = "martyrology.tex"
	DefaultTitle      = "Roman Martyrology (Extracted)"
	DefaultIndexDir   = "index"
	DefaultMaxResults = 20
)

// BuildConfig holds settings for the build stage.
type BuildConfig struct {
	// SourceDir contains the month folders mart01 ... mart12.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// Output is the path of the generated LaTeX file.
	Output string `json:"output" yaml:"output"`

	// Title is printed by \maketitle.
	Title string `json:"title" yaml:"title"`
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c BuildConfig) WithDefaults() BuildConfig {
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	return c
}

// IndexConfig holds settings for the day index.
type IndexConfig struct {
	// IndexDir holds martyrology.db and the export files.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Build BuildConfig `json:"build" yaml:"build"`
	Index IndexConfig `json:"index" yaml:"index"`
}
