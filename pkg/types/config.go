// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PipelineConfig holds the literals the post-processing pipeline writes and
// matches.
type PipelineConfig struct {
	// NoteType is written to column 1 of every record
	// (default "learn.javascript.ru(простая)").
	NoteType string `json:"note_type" yaml:"note_type" mapstructure:"note_type"`

	// SectionMarker is the heading that ends an administrative block opened
	// by a "---" rule (default "## Вопросы и ответы").
	SectionMarker string `json:"section_marker" yaml:"section_marker" mapstructure:"section_marker"`

	// CompactBlankLines removes every blank line from the deck body instead
	// of only those directly after the header.
	CompactBlankLines bool `json:"compact_blank_lines" yaml:"compact_blank_lines" mapstructure:"compact_blank_lines"`
}

// BuildConfig holds settings for a full deck build.
type BuildConfig struct {
	// SourceDir is the root of the markdown tree (default ".").
	SourceDir string `json:"source_dir" yaml:"source_dir" mapstructure:"source_dir"`

	// StagingDir receives flattened copies of the source files
	// (default "temp"). Empty disables staging.
	StagingDir string `json:"staging_dir" yaml:"staging_dir" mapstructure:"staging_dir"`

	// OutputPath is the deck file (default "target/toAnki.txt").
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path"`

	// ManifestPath is an optional YAML manifest written next to the deck.
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty" mapstructure:"manifest_path"`

	// HistoryDB is the SQLite build history (default ".qa-deck/history.db").
	// Empty disables history.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty" mapstructure:"history_db"`

	// Excludes lists extra directory or file names skipped during discovery.
	Excludes []string `json:"excludes,omitempty" yaml:"excludes,omitempty" mapstructure:"excludes"`

	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" mapstructure:"pipeline"`
}
