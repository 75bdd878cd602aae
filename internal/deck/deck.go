// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck builds an Anki import file from a markdown tree: discovery,
// staging, merge, post-processing and the final write.
package deck

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/qa-deck/internal/merge"
	"github.com/pdiddy/qa-deck/internal/pipeline"
	"github.com/pdiddy/qa-deck/internal/source"
	"github.com/pdiddy/qa-deck/pkg/types"
)

const (
	DefaultSourceDir  = "."
	DefaultStagingDir = "temp"
	DefaultOutputPath = "target/toAnki.txt"
)

// ErrNoSources is returned when discovery finds nothing to build from.
var ErrNoSources = errors.New("no markdown files found")

// PipelineOptions maps configuration onto pipeline options.
func PipelineOptions(cfg types.PipelineConfig) pipeline.Options {
	return pipeline.Options{
		NoteType:          cfg.NoteType,
		SectionMarker:     cfg.SectionMarker,
		CompactBlankLines: cfg.CompactBlankLines,
	}
}

func withDefaults(cfg types.BuildConfig) types.BuildConfig {
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultOutputPath
	}
	if cfg.Pipeline.NoteType == "" {
		cfg.Pipeline.NoteType = pipeline.DefaultNoteType
	}
	if cfg.Pipeline.SectionMarker == "" {
		cfg.Pipeline.SectionMarker = pipeline.DefaultSectionMarker
	}
	return cfg
}

// Build runs the whole conversion and writes the deck to cfg.OutputPath.
// Progress lines go to w. Nothing is written to the output path unless every
// step succeeds.
func Build(ctx context.Context, cfg types.BuildConfig, w io.Writer) (types.Manifest, error) {
	cfg = withDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return types.Manifest{}, err
	}

	files, err := source.Discover(ctx, source.Options{
		Root:      cfg.SourceDir,
		SkipPaths: []string{cfg.StagingDir, cfg.OutputPath, cfg.ManifestPath},
		Excludes:  cfg.Excludes,
	})
	if err != nil {
		return types.Manifest{}, err
	}
	if len(files) == 0 {
		return types.Manifest{}, fmt.Errorf("%w under %s", ErrNoSources, cfg.SourceDir)
	}
	fmt.Fprintf(w, "found: %d markdown files\n", len(files))

	if cfg.StagingDir != "" {
		files, err = source.Stage(ctx, files, cfg.StagingDir, w)
		if err != nil {
			return types.Manifest{}, err
		}
	}

	doc, files, err := merge.Merge(ctx, files, cfg.Pipeline.SectionMarker, w)
	if err != nil {
		return types.Manifest{}, err
	}

	opts := PipelineOptions(cfg.Pipeline)
	opts.SectionsPruned = true
	out, err := pipeline.Run(doc, opts)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("post-processing: %w", err)
	}

	if err := WriteFileAtomic(cfg.OutputPath, []byte(out)); err != nil {
		return types.Manifest{}, err
	}

	m := NewManifest(cfg, out, files)
	fmt.Fprintf(w, "wrote: %s (%d records)\n", cfg.OutputPath, m.Records)

	if cfg.ManifestPath != "" {
		if err := WriteManifest(cfg.ManifestPath, m); err != nil {
			return m, err
		}
		fmt.Fprintf(w, "manifest: %s\n", cfg.ManifestPath)
	}

	return m, nil
}

// NewManifest describes a finished deck.
func NewManifest(cfg types.BuildConfig, deck string, files []types.SourceFile) types.Manifest {
	sum := sha256.Sum256([]byte(deck))
	return types.Manifest{
		BuildID:    uuid.NewString(),
		BuiltAt:    time.Now().UTC(),
		SourceDir:  cfg.SourceDir,
		OutputPath: cfg.OutputPath,
		NoteType:   cfg.Pipeline.NoteType,
		Records:    pipeline.CountRecords(deck, cfg.Pipeline.NoteType),
		Bytes:      len(deck),
		SHA256:     hex.EncodeToString(sum[:]),
		Sources:    files,
	}
}

// Process runs the pipeline over an already merged file and replaces it
// with the deck. On any error the file is left as it was. It returns the
// number of records written.
func Process(path string, opts pipeline.Options) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := pipeline.Run(merge.NormalizeLineEndings(string(data)), opts)
	if err != nil {
		return 0, fmt.Errorf("post-processing %s: %w", path, err)
	}

	if err := WriteFileAtomic(path, []byte(out)); err != nil {
		return 0, err
	}
	return pipeline.CountRecords(out, opts.NoteType), nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
