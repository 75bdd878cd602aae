// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceFile is one markdown file that contributes records to a deck.
type SourceFile struct {
	// Path is the file's location on disk.
	Path string `json:"path" yaml:"path"`

	// RelPath is Path relative to the source root, slash separated.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Stamp is the flattened name written into every heading of the file
	// (e.g. "Part_1__Arrays__q.md").
	Stamp string `json:"stamp" yaml:"stamp"`

	// StagedPath is the copy under the staging directory, if any.
	StagedPath string `json:"staged_path,omitempty" yaml:"staged_path,omitempty"`

	// Records is the number of heading lines left after pruning.
	Records int `json:"records" yaml:"records"`
}

// Manifest describes one finished deck build.
type Manifest struct {
	// BuildID is a random UUID that identifies the build across machines.
	BuildID string `json:"build_id" yaml:"build_id"`

	BuiltAt    time.Time    `json:"built_at" yaml:"built_at"`
	SourceDir  string       `json:"source_dir" yaml:"source_dir"`
	OutputPath string       `json:"output_path" yaml:"output_path"`
	NoteType   string       `json:"note_type" yaml:"note_type"`
	Records    int          `json:"records" yaml:"records"`
	Bytes      int          `json:"bytes" yaml:"bytes"`
	SHA256     string       `json:"sha256" yaml:"sha256"`
	Sources    []SourceFile `json:"sources" yaml:"sources"`
}

// BuildRecord is a Manifest as stored in the build history.
type BuildRecord struct {
	ID       int64 `json:"id" yaml:"id"`
	Manifest `yaml:",inline"`
}
