// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates source files into the single document the
// pipeline runs on, stamping each file's name into its heading lines.
package merge

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/qa-deck/internal/pipeline"
	"github.com/pdiddy/qa-deck/pkg/types"
)

// fileSeparator follows every file in the merged document.
const fileSeparator = "\n\n"

var (
	crlfOrCR      = regexp.MustCompile(`\r\n?`)
	headingMarker = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(pipeline.HeadingMarker))
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// StampHeadings puts stamp on its own heading line in front of every heading:
// "###### Вопрос 1:" becomes "###### <stamp>\nВопрос 1:".
func StampHeadings(content, stamp string) string {
	return headingMarker.ReplaceAllLiteralString(content, pipeline.HeadingMarker+stamp+"\n")
}

// Merge reads every file (the staged copy when there is one), prunes its
// administrative sections with sectionMarker, stamps its headings and joins
// the results in order. Pruning file by file keeps a section from running
// into the next file. The returned files carry the number of records each
// one contributes to the merged document.
//
// The merged document is already pruned; pipeline.Options.SectionsPruned
// should be set when it is post-processed.
func Merge(ctx context.Context, files []types.SourceFile, sectionMarker string, w io.Writer) (string, []types.SourceFile, error) {
	prune := pipeline.SectionRemover(sectionMarker)

	var b strings.Builder
	merged := make([]types.SourceFile, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		path := f.Path
		if f.StagedPath != "" {
			path = f.StagedPath
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("reading %s: %w", path, err)
		}

		content := StampHeadings(prune(NormalizeLineEndings(string(data))), f.Stamp)
		f.Records = pipeline.CountHeadings(content)
		merged[i] = f

		b.WriteString(content)
		b.WriteString(fileSeparator)

		fmt.Fprintf(w, "merged: %s (%d records)\n", f.RelPath, f.Records)
	}

	return b.String(), merged, nil
}
