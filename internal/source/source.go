// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source finds the question/answer markdown files under a directory
// tree and stages flattened copies of them for merging.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/qa-deck/pkg/types"
)

const (
	markdownExt   = ".md"
	readmeName    = "README.md"
	excalidrawTag = ".excalidraw"
	nodeModules   = "node_modules"

	// stampSep joins path elements in a stamp. The heading stage later reads
	// it back as the deck level separator.
	stampSep = "__"
)

// ErrStampCollision is returned when two source files flatten to the same
// stamp and would overwrite each other in the staging directory.
var ErrStampCollision = errors.New("source files share a stamp")

// Options controls discovery.
type Options struct {
	// Root is the directory to walk.
	Root string

	// SkipPaths lists files or directories that are never read, such as the
	// staging directory and the deck output.
	SkipPaths []string

	// Excludes lists extra base names to skip, files or directories.
	Excludes []string
}

// Discover walks opts.Root and returns every markdown file that can hold
// cards, sorted by relative path. node_modules, hidden directories,
// README.md and Excalidraw drawings are skipped. Two files whose paths
// flatten to the same stamp ("a b.md" and "a_b.md") are an error.
func Discover(ctx context.Context, opts Options) ([]types.SourceFile, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	skip := make(map[string]bool, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}
	excluded := make(map[string]bool, len(opts.Excludes))
	for _, name := range opts.Excludes {
		excluded[name] = true
	}

	var files []types.SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if name == nodeModules || strings.HasPrefix(name, ".") || excluded[name] || skip[abs] {
				return filepath.SkipDir
			}
			return nil
		}

		if !isCardFile(name) || excluded[name] || skip[abs] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		files = append(files, types.SourceFile{
			Path:    path,
			RelPath: rel,
			Stamp:   Stamp(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering markdown files in %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	if err := checkStamps(files); err != nil {
		return nil, err
	}
	return files, nil
}

func checkStamps(files []types.SourceFile) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.Stamp]; ok {
			return fmt.Errorf("%w: %s and %s both become %s", ErrStampCollision, prev, f.RelPath, f.Stamp)
		}
		seen[f.Stamp] = f.RelPath
	}
	return nil
}

func isCardFile(name string) bool {
	return strings.HasSuffix(name, markdownExt) &&
		!strings.Contains(name, excalidrawTag) &&
		name != readmeName
}

// Stamp flattens a slash-separated relative path into a single file name:
// spaces become underscores and path elements are joined by "__".
// "Part 1/Arrays/q.md" becomes "Part_1__Arrays__q.md".
func Stamp(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, " ", "_")
	}
	return strings.Join(parts, stampSep)
}

// Stage copies every file into dir under its stamp and records the copy in
// StagedPath. Existing copies are overwritten; files sharing a stamp are
// rejected before anything is copied.
func Stage(ctx context.Context, files []types.SourceFile, dir string, w io.Writer) ([]types.SourceFile, error) {
	if err := checkStamps(files); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory %s: %w", dir, err)
	}

	staged := make([]types.SourceFile, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dst := filepath.Join(dir, f.Stamp)
		if err := copyFile(f.Path, dst); err != nil {
			return nil, fmt.Errorf("staging %s: %w", f.RelPath, err)
		}
		f.StagedPath = dst
		staged[i] = f
	}

	fmt.Fprintf(w, "staged: %d files in %s\n", len(staged), dir)
	return staged, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
