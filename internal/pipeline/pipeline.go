// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns a merged question/answer markdown document into an
// Anki import deck. The work is a fixed list of string-to-string stages; each
// one relies on the text shape left by the stages before it, so the order in
// Stages is part of the contract.
package pipeline

import (
	"fmt"
	"strings"
)

// Stage names, in execution order.
const (
	StagePruneSections       = "prune-sections"
	StageFenceTriple         = "fence-triple"
	StageFenceSingle         = "fence-single"
	StageJoinQuestionHeading = "join-question-heading"
	StageJoinAnswer          = "join-answer"
	StageStripQuestionPrefix = "strip-question-prefix"
	StageHeadingUnderscores  = "heading-underscores"
	StageHeadingTruncate     = "heading-truncate"
	StageHeadingOpenField    = "heading-open-field"
	StageAnswerDelimiter     = "answer-delimiter"
	StageClosePreviousField  = "close-previous-field"
	StageHeadingTag          = "heading-tag"
	StageDeckHeader          = "deck-header"
)

// Stage is one named rewrite of the whole document.
type Stage struct {
	Name  string
	Apply func(doc string) (string, error)
}

// Options tunes the literals the stages write and match.
type Options struct {
	// NoteType is written to column 1 of every record.
	NoteType string

	// SectionMarker ends an administrative block that starts at "---".
	SectionMarker string

	// CompactBlankLines removes every blank line in the deck body, not only
	// the ones right after the header.
	CompactBlankLines bool

	// SectionsPruned turns the prune stage into a no-op for documents whose
	// files were pruned one at a time before merging.
	SectionsPruned bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NoteType:      DefaultNoteType,
		SectionMarker: DefaultSectionMarker,
	}
}

func (o Options) withDefaults() Options {
	if o.NoteType == "" {
		o.NoteType = DefaultNoteType
	}
	if o.SectionMarker == "" {
		o.SectionMarker = DefaultSectionMarker
	}
	return o
}

func pure(name string, fn func(string) string) Stage {
	return Stage{
		Name: name,
		Apply: func(doc string) (string, error) {
			return fn(doc), nil
		},
	}
}

// Stages returns the ordered stage list for opts.
//
//   - Pruning and both fence passes run on raw prose. The triple pass must
//     precede the single pass.
//   - Question headings and answers are joined, and question prefixes
//     stripped, while heading lines still end in a newline and questions
//     still start their own line.
//   - Heading text is cleaned before its trailing newline becomes the
//     opening quote of the front field.
//   - Answer markers become the front/back delimiter before closing quotes
//     are added, so the closing quote lands on the end of the answer.
//   - The heading marker is replaced by the tag only after every stage that
//     locates headings by "######".
//   - The deck header goes on last, exactly once.
func Stages(opts Options) []Stage {
	opts = opts.withDefaults()
	prune := SectionRemover(opts.SectionMarker)
	if opts.SectionsPruned {
		prune = func(doc string) string { return doc }
	}
	return []Stage{
		pure(StagePruneSections, prune),
		pure(StageFenceTriple, ReplaceTripleBackticks),
		pure(StageFenceSingle, ReplaceSingleBackticks),
		pure(StageJoinQuestionHeading, JoinQuestionHeadings),
		pure(StageJoinAnswer, JoinAnswers),
		pure(StageStripQuestionPrefix, StripQuestionPrefixes),
		pure(StageHeadingUnderscores, ReplaceUnderscoresInHeadings),
		pure(StageHeadingTruncate, TruncateHeadings),
		pure(StageHeadingOpenField, OpenHeadingFields),
		pure(StageAnswerDelimiter, ReplaceAnswerMarkers),
		pure(StageClosePreviousField, CloseRecordFields),
		pure(StageHeadingTag, func(doc string) string {
			return RewriteHeadingTags(doc, opts.NoteType)
		}),
		{
			Name: StageDeckHeader,
			Apply: func(doc string) (string, error) {
				return addDeckHeader(doc, opts.CompactBlankLines)
			},
		},
	}
}

// Run applies every stage to doc once. On error the input is returned
// unchanged along with the failing stage's error.
func Run(doc string, opts Options) (string, error) {
	out := doc
	for _, st := range Stages(opts) {
		next, err := st.Apply(out)
		if err != nil {
			return doc, fmt.Errorf("stage %s: %w", st.Name, err)
		}
		out = next
	}
	return out, nil
}

// CountRecords returns the number of record lines in a finished deck.
func CountRecords(deck, noteType string) int {
	if noteType == "" {
		noteType = DefaultNoteType
	}
	prefix := noteType + "\t"
	n := 0
	for _, line := range strings.Split(deck, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// CountHeadings returns the number of heading lines in a source document.
func CountHeadings(doc string) int {
	return len(headingLine.FindAllStringIndex(doc, -1))
}
